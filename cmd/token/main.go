// Command token issues a signed access token for local testing against the API.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
)

func main() {
	staffID := flag.String("staff", "", "staff ID to embed in the token")
	roleFlag := flag.String("role", string(user.RoleStaff), "role: owner, manager or staff")
	flag.Parse()

	if *staffID == "" {
		fmt.Fprintln(os.Stderr, "-staff is required")
		os.Exit(2)
	}

	role, ok := user.ParseRole(*roleFlag)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown role %q\n", *roleFlag)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	token, _, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration).GenerateAccessToken(*staffID, role)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error generating token:", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
