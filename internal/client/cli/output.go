package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/cipher/internal/api"
)

const timeLayout = "2006-01-02 15:04:05"

func formatTime(t time.Time) string {
	return t.Local().Format(timeLayout)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return formatTime(*t)
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
}

func printVaults(w io.Writer, vaults []api.Vault) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tROLE\tSECRETS\tMEMBERS\tLAST ACTIVITY")
	for _, v := range vaults {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n", v.ID, v.Name, v.Role, v.SecretsCount, v.MembersCount, formatTimePtr(v.LastActivityAt))
	}
	tw.Flush()
}

func printSecrets(w io.Writer, secrets []api.Secret) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION\tLAST ACCESSED")
	for _, s := range secrets {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, s.Name, deref(s.Description), formatTimePtr(s.LastAccessedAt))
	}
	tw.Flush()
}

func printMembers(w io.Writer, members []api.Member) {
	tw := newTable(w)
	fmt.Fprintln(tw, "EMAIL\tROLE\tADDED")
	for _, m := range members {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Email, m.Role, formatTime(m.CreatedAt))
	}
	tw.Flush()
}

func printLogs(w io.Writer, logs []api.AuditEntry) {
	tw := newTable(w)
	fmt.Fprintln(tw, "TIME\tACTION\tACTOR\tVAULT\tSECRET\tIP")
	for _, l := range logs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			formatTime(l.CreatedAt), l.Action, deref(l.ActorEmail), deref(l.VaultName), deref(l.SecretName), l.IP)
	}
	tw.Flush()
}
