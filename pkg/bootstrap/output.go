package bootstrap

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// PrintBootstrapResult writes the bootstrap results to w. A generated password is
// shown here and nowhere else.
func PrintBootstrapResult(w io.Writer, result *AdminBootstrapResult) {
	if result == nil || !result.UserCreated {
		return
	}

	border := strings.Repeat("=", 80)
	fmt.Fprintf(w, "\n%s\nADMIN BOOTSTRAP COMPLETED\n%s\n", border, border)

	fmt.Fprintf(w, "  Name:      %s\n", result.Name)
	fmt.Fprintf(w, "  Email:     %s\n", result.Email)
	fmt.Fprintf(w, "  User ID:   %s\n", result.UserID)
	fmt.Fprintf(w, "  Roles:     %s\n", strings.Join(result.Roles, ", "))
	if result.PasswordFromEnv {
		fmt.Fprintf(w, "  Password:  (configured via ADMIN_PASSWORD environment variable)\n")
		fmt.Fprintln(w, "\n  Remove ADMIN_PASSWORD from the environment after first login.")
	} else {
		fmt.Fprintf(w, "  Password:  %s\n", result.Password)
		fmt.Fprintln(w, "\n  THIS PASSWORD WILL NOT BE DISPLAYED AGAIN - SAVE IT NOW!")
	}
	fmt.Fprintf(w, "%s\n\n", border)
}

// LogBootstrapSummary logs the outcome without the password
func LogBootstrapSummary(result *AdminBootstrapResult) {
	if result == nil || !result.UserCreated {
		return
	}
	slog.Info("Admin bootstrap summary",
		"admin_email", result.Email,
		"user_id", result.UserID,
		"roles", result.Roles,
		"password_from_env", result.PasswordFromEnv,
	)
}
