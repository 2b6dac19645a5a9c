package utils

import (
	"fmt"
	"time"
)

func SendClaimDecisionEmail(to, firstName, claimCode, dueTitle, amount string, verified bool, note string, decidedAt time.Time) error {
	headline := "Payment Verified ✅"
	color := "#0a4d3c"
	boxBg := "#f2fdf6"
	boxBorder := "#bfe7cb"
	detail := fmt.Sprintf("Your payment of ₱<b>%s</b> for <b>%s</b> has been verified by your finance coordinator and applied to your balance.", amount, dueTitle)
	subject := fmt.Sprintf("✅ Payment Verified — %s", dueTitle)

	if !verified {
		headline = "Payment Not Accepted"
		color = "#d9534f"
		boxBg = "#fff6f6"
		boxBorder = "#f1c1c1"
		detail = fmt.Sprintf("Your payment claim of ₱<b>%s</b> for <b>%s</b> was not accepted. Please review the note below and submit a new claim.", amount, dueTitle)
		subject = fmt.Sprintf("❌ Payment Claim Rejected — %s", dueTitle)
	}

	noteBlock := ""
	if note != "" {
		noteBlock = fmt.Sprintf(`<p class="message"><b>Coordinator note:</b> %s</p>`, note)
	}

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="en">
	<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Payment Decision</title>
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
			border-top: 5px solid %s;
		}
		.header {
			background-color: %s;
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
			background: %s;
			border: 1px solid %s;
			border-radius: 8px;
			padding: 12px 14px;
			margin: 16px 0;
			text-align: center;
		}
		.amount-box h3 {
			margin: 0;
			color: %s;
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
				<h1>%s</h1>
			</div>
			<div class="content">
				<p class="message">
					Hi %s,<br><br>
					%s
				</p>

				<div class="amount-box">
					<h3>₱%s</h3>
					<p>Claim: %s</p>
					<p>Decided: %s</p>
				</div>
				%s
			</div>
			<div class="footer">
				&copy; %d <span class="brand">DuesPay</span> — Keeping Org Finances Honest.
			</div>
		</div>
	</body>
	</html>
	`, color, color, boxBg, boxBorder, color, headline, firstName, detail, amount, claimCode,
		decidedAt.Format("3:04 PM, Jan 2 2006"), noteBlock, time.Now().Year())

	return SendEmail(to, subject, body)
}
