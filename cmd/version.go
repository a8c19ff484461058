package cmd

import (
	"fmt"
	"os"
)

// Version information (injected at build time via ldflags)
var (
	AppVersion = "development"
	BuildTime  = "unknown"
	GitCommit  = "unknown"
)

// runVersion prints build information and which provider keys are present.
// Key material itself is never printed.
func runVersion() {
	fmt.Printf("somascope %s\n", AppVersion)
	fmt.Printf("Build Time: %s\n", BuildTime)
	fmt.Printf("Git Commit: %s\n", GitCommit)
	fmt.Println()

	fmt.Println("Providers:")
	printKeyStatus("CEREBRAS_API_KEY")
	printKeyStatus("ELEVENLABS_API_KEY")
}

func printKeyStatus(envVar string) {
	if os.Getenv(envVar) != "" {
		fmt.Printf("  %s: configured\n", envVar)
	} else {
		fmt.Printf("  %s: not set\n", envVar)
	}
}
