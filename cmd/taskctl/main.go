// Package main implements the taskctl CLI for manual operations against the
// taskbridged HTTP sidecar.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	// serverURL is the base URL for the taskbridged HTTP sidecar
	serverURL string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "taskctl",
	Short: "CLI for taskbridged sidecar operations",
	Long: `taskctl is a command-line interface for the taskbridged HTTP sidecar.
It provides commands for checking bridge health and listing configured projects.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:9190", "taskbridged sidecar URL")
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(projectsCmd)
}

// healthCmd checks bridge health
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check taskbridged health",
	Long: `Check the health status of the taskbridged HTTP sidecar.

Examples:
  # Check health
  taskctl health

  # Check health on a different port
  taskctl health --server http://localhost:8080`,
	RunE: runHealth,
}

// projectsCmd lists the configured projects
var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List configured SimpleTask projects",
	Long: `List the projects configured on the taskbridged sidecar. API keys are
never exposed over HTTP.

Examples:
  # List projects
  taskctl projects`,
	RunE: runProjects,
}

// HealthResponse matches internal/http/server.go HealthResponse
type HealthResponse struct {
	Status   string `json:"status"`
	Projects int    `json:"projects"`
}

// ProjectListResponse matches internal/http/server.go ProjectListResponse
type ProjectListResponse struct {
	Projects []struct {
		Name        string `json:"name"`
		Key         string `json:"project_name"`
		ProjectID   string `json:"project_id"`
		Description string `json:"description,omitempty"`
	} `json:"projects"`
	Count int `json:"count"`
}

// runHealth handles the health command
func runHealth(cmd *cobra.Command, args []string) error {
	var health HealthResponse
	if err := getJSON(serverURL+"/health", &health); err != nil {
		return err
	}
	fmt.Printf("Status:   %s\n", health.Status)
	fmt.Printf("Projects: %d\n", health.Projects)
	return nil
}

// runProjects handles the projects command
func runProjects(cmd *cobra.Command, args []string) error {
	var list ProjectListResponse
	if err := getJSON(serverURL+"/api/v1/projects", &list); err != nil {
		return err
	}
	if list.Count == 0 {
		fmt.Println("No projects configured.")
		return nil
	}
	for _, p := range list.Projects {
		fmt.Printf("%-20s %s", p.Key, p.Name)
		if p.Description != "" {
			fmt.Printf("  (%s)", p.Description)
		}
		fmt.Println()
	}
	return nil
}

// getJSON performs a GET request and decodes the JSON response body.
func getJSON(url string, out any) error {
	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to reach %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("server returned status %d (failed to read response body: %w)", resp.StatusCode, readErr)
		}
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
