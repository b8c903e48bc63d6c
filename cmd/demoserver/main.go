// Command demoserver starts the deliberately flawed demo site used to try
// the auditor end to end.
// Usage: go run ./cmd/demoserver [port]
// Default port: 9999
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/raysh454/siteaudit/internal/demoserver"
)

func main() {
	cfg := demoserver.DefaultConfig()

	// Optional: custom port from command line
	if len(os.Args) > 1 {
		port, err := strconv.Atoi(os.Args[1])
		if err != nil || port < 1 || port > 65535 {
			log.Fatalf("Invalid port: %s", os.Args[1])
		}
		cfg.Port = port
	}

	fmt.Println("===========================================")
	fmt.Println("   SiteAudit Demo Server")
	fmt.Println("===========================================")
	fmt.Println()
	fmt.Println("This server exhibits the defect classes the auditor")
	fmt.Println("detects, so a local scan has something to find:")
	fmt.Println("  - Missing security headers (CSP, X-Frame-Options, HSTS)")
	fmt.Println("  - Reflected parameters and a fake SQL error page")
	fmt.Println("  - A login form without a CSRF token")
	fmt.Println("  - Cookies without Secure/HttpOnly")
	fmt.Println("  - An exposed /.env and /admin")
	fmt.Println()
	fmt.Println("Audit it with: auditcli -target localhost:" + strconv.Itoa(cfg.Port))
	fmt.Println()

	server := demoserver.NewDemoServer(cfg)
	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
