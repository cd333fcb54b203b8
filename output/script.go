package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmdrx/cmdrx/analysis"
)

// scriptPrologue is the fixed header of every generated fix script: the
// warning banner plus the confirmation helpers every command runs through.
const scriptPrologue = `set -e  # Exit on any error
set -u  # Exit on undefined variables

# Colors for output
RED="\033[31m"
GREEN="\033[32m"
YELLOW="\033[33m"
BLUE="\033[34m"
NC="\033[0m"  # No Color

# Function to ask for confirmation
confirm() {
    echo -e "${YELLOW}$1${NC}"
    read -p "Do you want to continue? (y/N): " -n 1 -r
    echo
    if [[ ! $REPLY =~ ^[Yy]$ ]]; then
        echo -e "${RED}Aborted.${NC}"
        exit 1
    fi
}

# Function to run command with confirmation
run_command() {
    echo -e "${BLUE}About to run: $1${NC}"
    confirm "This will execute the above command."
    echo -e "${GREEN}Executing: $1${NC}"
    eval "$1"
    echo -e "${GREEN}Command completed.${NC}"
    echo
}
`

// fixScript renders the suggested fixes as a bash script that states each
// fix's risk level and asks for confirmation before every command.
func fixScript(fixes []analysis.Fix, command string) string {
	var b strings.Builder

	b.WriteString("#!/bin/bash\n#\n# CmdRx Generated Fix Script\n")
	fmt.Fprintf(&b, "# Generated: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "# Original Command: %s\n", command)
	b.WriteString(`#
# WARNING: This script contains suggested fixes generated by AI.
# Review all commands carefully before execution.
# Some commands may:
#   - Modify system configuration
#   - Restart services
#   - Delete or modify files
#   - Require administrative privileges
#

`)
	b.WriteString(scriptPrologue)
	b.WriteString("\necho -e \"${BLUE}CmdRx Fix Script${NC}\"\n")
	fmt.Fprintf(&b, "echo -e \"${YELLOW}Generated fixes for command: %s${NC}\"\necho\n\n", command)

	for i, fix := range fixes {
		riskColor := map[analysis.RiskLevel]string{
			analysis.RiskLow:    "${GREEN}",
			analysis.RiskMedium: "${YELLOW}",
			analysis.RiskHigh:   "${RED}",
		}[fix.RiskLevel]
		if riskColor == "" {
			riskColor = "${YELLOW}"
		}

		fmt.Fprintf(&b, "# Fix %d: %s\n", i+1, fix.Description)
		fmt.Fprintf(&b, "echo -e \"%sFix %d: %s${NC}\"\n", riskColor, i+1, fix.Description)
		fmt.Fprintf(&b, "echo -e \"Risk Level: %s%s${NC}\"\n", riskColor, strings.ToUpper(string(fix.RiskLevel)))
		if fix.Explanation != "" {
			fmt.Fprintf(&b, "echo \"Explanation: %s\"\n", fix.Explanation)
		}
		b.WriteString("echo\n")

		if len(fix.Commands) == 0 {
			b.WriteString("echo -e \"${YELLOW}No commands provided for this fix.${NC}\"\n")
		}
		for _, cmd := range fix.Commands {
			fmt.Fprintf(&b, "run_command \"%s\"\n", escapeForShell(cmd))
		}
		b.WriteString("echo\n\n")
	}

	b.WriteString("echo -e \"${GREEN}All fixes completed successfully!${NC}\"\n")
	b.WriteString("echo -e \"${BLUE}Check the system status to verify the fixes worked as expected.${NC}\"\n")

	return b.String()
}

// escapeForShell escapes quotes and expansions so a command survives being
// embedded in a double-quoted run_command argument.
func escapeForShell(cmd string) string {
	cmd = strings.ReplaceAll(cmd, `"`, `\"`)
	return strings.ReplaceAll(cmd, `$`, `\$`)
}
