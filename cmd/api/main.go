package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jobmarket",
	Short: "Job marketplace backend",
	Long: `Job marketplace backend. Usage:

	jobmarket serve
	jobmarket migrate up
	jobmarket migrate down [steps]
`,
	SilenceUsage: true,
}

// @title           Job Marketplace API
// @version         1.0
// @description     Accounts, profiles, companies, job posts, applications and the community feed.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
