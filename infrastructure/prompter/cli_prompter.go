package prompter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/reglet-dev/provisioning-sdk/domain/entities"
	"github.com/reglet-dev/provisioning-sdk/domain/ports"
)

// CliPrompter implements ports.Confirmer for CLI environments.
type CliPrompter struct {
	in  io.Reader
	out io.Writer
}

var _ ports.Confirmer = (*CliPrompter)(nil)

// NewCliPrompter creates a new CliPrompter.
func NewCliPrompter(in io.Reader, out io.Writer) *CliPrompter {
	return &CliPrompter{in: in, out: out}
}

// IsInteractive checks if the input is a terminal.
func (p *CliPrompter) IsInteractive() bool {
	if f, ok := p.in.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil {
			return false
		}
		return (stat.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

// ConfirmRisks lists the risks of a request and asks the operator to approve it.
// Anything other than an explicit yes or always is a denial.
func (p *CliPrompter) ConfirmRisks(application string, level entities.Risk, risks []string) (approved bool, always bool, err error) {
	_, _ = fmt.Fprintf(p.out, "Request for %s carries %s risk:\n", application, level)
	for _, r := range risks {
		_, _ = fmt.Fprintf(p.out, "- %s\n", r)
	}
	_, _ = fmt.Fprintf(p.out, "Apply? [y/n/always]: ")

	scanner := bufio.NewScanner(p.in)
	if scanner.Scan() {
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "y", "yes":
			return true, false, nil
		case "a", "always":
			return true, true, nil
		default:
			return false, false, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return false, false, err
	}
	return false, false, io.EOF
}

// FormatNonInteractiveError explains why a request was refused without a terminal.
func (p *CliPrompter) FormatNonInteractiveError(application string, level entities.Risk, risks []string) error {
	return fmt.Errorf("request for %s carries %s risk and needs confirmation in non-interactive mode (%s); approve it with -yes or a standing approval",
		application, level, strings.Join(risks, "; "))
}
