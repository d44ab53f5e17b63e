// Command token prints a bearer token for local testing of the API. In
// production tokens are issued by the user service that owns identities.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dmitrijs2005/carbontrack/internal/server/auth"
	"github.com/dmitrijs2005/carbontrack/internal/server/config"
)

func main() {

	cfg := &config.Config{}
	cfg.LoadDefaults()

	fs := flag.NewFlagSet("token", flag.ExitOnError)
	userID := fs.String("u", "", "user id to embed in the token")
	secret := fs.String("s", cfg.SecretKey, "JWT HMAC secret key")
	ttl := fs.Duration("ttl", 24*time.Hour, "token validity")
	_ = fs.Parse(os.Args[1:])

	if *userID == "" {
		log.Fatal("-u is required")
	}

	tok, err := auth.GenerateToken(*userID, []byte(*secret), *ttl)
	if err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Println(tok)

}
