package cli

import (
	"context"
	"fmt"
	"path"
	"strconv"

	"github.com/dmitrijs2005/cipher/internal/api"
	"github.com/dmitrijs2005/cipher/internal/filex"
	"github.com/dmitrijs2005/cipher/internal/netx"
)

const exportDir = "exports"

// seams for tests
var (
	downloadExport = netx.DownloadPresignedURL
	saveExport     = filex.WriteInSubdDir
)

// Logs shows the audit trail of one vault, or of every accessible vault when
// the vault ID is left blank.
func (a *App) Logs(ctx context.Context) error {
	vaultID, err := getSimpleText(a.reader, "Enter vault ID (blank for all vaults)", a.out)
	if err != nil {
		return err
	}

	limitText, err := getSimpleText(a.reader, "Enter limit (blank for default)", a.out)
	if err != nil {
		return err
	}

	limit := 0
	if limitText != "" {
		limit, err = strconv.Atoi(limitText)
		if err != nil || limit <= 0 {
			return fmt.Errorf("invalid limit %q", limitText)
		}
	}

	var logs []api.AuditEntry
	if vaultID == "" {
		logs, err = a.client.ListAllLogs(ctx, limit)
	} else {
		logs, err = a.client.ListVaultLogs(ctx, vaultID, limit)
	}
	if err != nil {
		return err
	}

	if len(logs) == 0 {
		fmt.Fprintln(a.out, "No activity")
		return nil
	}

	printLogs(a.out, logs)
	return nil
}

func (a *App) Dashboard(ctx context.Context) error {
	d, err := a.client.Dashboard(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Vaults: %d  Secrets: %d  Accesses: %d\n", d.Stats.Vaults, d.Stats.Secrets, d.Stats.Accesses)

	if len(d.RecentVaults) > 0 {
		fmt.Fprintln(a.out, "\nRecent vaults")
		printVaults(a.out, d.RecentVaults)
	}

	if len(d.RecentLogs) > 0 {
		fmt.Fprintln(a.out, "\nRecent activity")
		printLogs(a.out, d.RecentLogs)
	}

	return nil
}

// Export asks the server to publish the vault's audit log and downloads the
// document through the presigned link.
func (a *App) Export(ctx context.Context) error {
	vaultID, err := getSimpleText(a.reader, "Enter vault ID", a.out)
	if err != nil {
		return err
	}

	resp, err := a.client.ExportVaultLogs(ctx, vaultID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Exported %d records to %s\n", resp.Records, resp.Key)
	fmt.Fprintf(a.out, "Link valid until %s\n", formatTime(resp.ExpiresAt))

	body, err := downloadExport(ctx, resp.URL)
	if err != nil {
		fmt.Fprintf(a.out, "Download it from %s\n", resp.URL)
		return fmt.Errorf("download export: %w", err)
	}

	file, err := saveExport(exportDir, path.Base(resp.Key), body)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Saved %s\n", file)
	return nil
}
