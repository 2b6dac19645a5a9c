package main

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/http"
	"os"

	"duespay/internal/api/handlers/claims"
	duesh "duespay/internal/api/handlers/dues"
	"duespay/internal/api/handlers/receipts"
	mw "duespay/internal/api/middlewares"
	"duespay/internal/api/routers"
	"duespay/internal/ledger"
	"duespay/internal/repositories/mysqlstore"
	"duespay/internal/repositories/sqlconnect"
	"duespay/internal/services"
	"duespay/pkg/cron"
	"duespay/pkg/utils"

	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		return
	}

	utils.InitLogger()

	err = sqlconnect.ConnectDb()
	if err != nil {
		utils.Logger.Fatal("DB connection failed: ", err)
	}

	dueStore := mysqlstore.NewDues(sqlconnect.DB)
	claimStore := mysqlstore.NewClaims(sqlconnect.DB)
	engine := ledger.NewEngine(dueStore, claimStore)

	receiptStore, err := services.NewReceiptStore(os.Getenv("RECEIPT_DIR"))
	if err != nil {
		utils.Logger.Fatal("receipt store init failed: ", err)
	}

	cron.StartCronJobs(sqlconnect.DB, engine)

	port := os.Getenv("SERVER_PORT")

	router := routers.MainRouter(
		duesh.New(engine, dueStore),
		claims.New(engine, sqlconnect.DB),
		receipts.New(receiptStore),
	)

	jwtMiddleware := mw.MiddlewaresExcludePaths(mw.JWTMiddleware, "/users/signup", "/users/login")
	secureMux := jwtMiddleware(mw.SecurityHeaders(router))

	server := &http.Server{
		Addr:    port,
		Handler: secureMux,
		TLSConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}

	cert := os.Getenv("CERT_FILE")
	key := os.Getenv("KEY_FILE")

	fmt.Println("Server is running on port", port)
	if cert != "" && key != "" {
		err = server.ListenAndServeTLS(cert, key)
	} else {
		err = server.ListenAndServe()
	}
	if err != nil {
		log.Fatalln("Error starting the server", err)
	}
}
