package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/audit"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/db"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Read the audit trail",
	Run:   requireSubcommand,
}

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent audit messages",
	Long: `List recent audit messages, newest first.

Messages are read from AUDIT_DATABASE_URL, or from DATABASE_URL when the
audit trail shares the application database.

Example:
  compliancectl audit list --msgid api-key --since 24h
  compliancectl audit list --severity warning -n 20`,
	Run: func(cmd *cobra.Command, args []string) {
		msgID, _ := cmd.Flags().GetString("msgid")
		severity, _ := cmd.Flags().GetString("severity")
		since, _ := cmd.Flags().GetDuration("since")
		limit, _ := cmd.Flags().GetInt("limit")

		filter := audit.Filter{MsgID: msgID, Limit: limit}
		if since > 0 {
			filter.Since = time.Now().Add(-since)
		}
		if severity != "" {
			s, err := parseSeverity(severity)
			exitOnError("Listing audit messages failed", err)
			filter.MaxSeverity = &s
		}

		exitOnError("Listing audit messages failed", listAudit(cmd, filter))
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditListCmd)

	auditListCmd.Flags().String("msgid", "", "only messages with this MSGID (login, user, system, assessment, approval, api-key, data-export, data-import)")
	auditListCmd.Flags().String("severity", "", "only messages at this severity or more urgent")
	auditListCmd.Flags().Duration("since", 0, "only messages newer than this duration")
	auditListCmd.Flags().IntP("limit", "n", 50, "maximum number of messages")
}

func listAudit(cmd *cobra.Command, filter audit.Filter) error {
	dbURL := os.Getenv("AUDIT_DATABASE_URL")
	if dbURL == "" {
		dbURL = db.URL()
	}
	if dbURL == "" {
		return fmt.Errorf("AUDIT_DATABASE_URL or DATABASE_URL is required")
	}

	store, err := audit.OpenStore(dbURL)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	msgs, err := store.Recent(cmd.Context(), filter)
	if err != nil {
		return err
	}

	rows := make([][]interface{}, 0, len(msgs))
	for _, m := range msgs {
		rows = append(rows, []interface{}{m.Timestamp.Local().Format(time.DateTime), m.Severity, m.MsgID, m.Text, formatSData(m.SData)})
	}
	renderTable([]string{"Time", "Severity", "MsgID", "Message", "Data"}, rows)
	return nil
}

func parseSeverity(name string) (audit.Severity, error) {
	for s := audit.SeverityEmergency; s <= audit.SeverityDebug; s++ {
		if strings.EqualFold(s.String(), name) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown severity %q", name)
}

// formatSData flattens structured data to sorted key=value pairs.
func formatSData(sd map[string]map[string]string) string {
	var parts []string
	for _, params := range sd {
		for k, v := range params {
			parts = append(parts, k+"="+v)
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}
