package utils

import (
	"fmt"
	"time"
)

func SendDueReminderEmail(to, firstName, remaining, dueTitle string, dueDate time.Time) error {
	subject := fmt.Sprintf("💰 Reminder: ₱%s Still Due for '%s'", remaining, dueTitle)

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="en">
	<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Due Reminder</title>
	<style>
		body {
			font-family: 'Segoe UI', Roboto, Arial, sans-serif;
			background-color: #f6f8f7;
			margin: 0;
			padding: 0;
			color: #333;
		}
		.container {
			max-width: 480px;
			margin: 25px auto;
			background: #ffffff;
			border-radius: 12px;
			box-shadow: 0 4px 16px rgba(0, 0, 0, 0.08);
			overflow: hidden;
			border-top: 5px solid #d9534f;
		}
		.header {
			background-color: #d9534f;
			color: #ffffff;
			text-align: center;
			padding: 18px 12px;
		}
		.header h1 {
			margin: 0;
			font-size: 18px;
			font-weight: 600;
		}
		.content {
			padding: 20px 18px;
		}
		.message {
			font-size: 14px;
			line-height: 1.6;
			color: #444;
		}
		.amount-box {
			background: #fff6f6;
			border: 1px solid #f1c1c1;
			border-radius: 8px;
			padding: 12px 14px;
			margin: 16px 0;
			text-align: center;
		}
		.amount-box h3 {
			margin: 0;
			color: #d9534f;
			font-size: 16px;
			font-weight: 700;
		}
		.amount-box p {
			margin: 6px 0 0;
			font-size: 13px;
			color: #555;
		}
		.footer {
			background: #f0f6f2;
			text-align: center;
			padding: 14px;
			font-size: 12px;
			color: #777;
			border-top: 1px solid #e5e5e5;
		}
		.brand {
			color: #0a4d3c;
			font-weight: bold;
		}
	</style>
	</head>

	<body>
		<div class="container">
			<div class="header">
				<h1>Payment Due Reminder</h1>
			</div>
			<div class="content">
				<p class="message">
					Hi %s,<br><br>
					This is a friendly reminder that your due <b>%s</b> was payable by <b>%s</b> and still has an outstanding balance.
				</p>

				<div class="amount-box">
					<h3>₱%s Remaining</h3>
					<p>Due date: %s</p>
				</div>

				<p class="message">
					You can submit a GCash, Maya or cash payment claim any time from your <b>DuesPay</b> dashboard.
				</p>
			</div>
			<div class="footer">
				&copy; %d <span class="brand">DuesPay</span> — Keeping Org Finances Honest.
			</div>
		</div>
	</body>
	</html>
	`, firstName, dueTitle, dueDate.Format("Jan 2, 2006"), remaining, dueDate.Format("Jan 2, 2006"), time.Now().Year())

	return SendEmail(to, subject, body)
}
