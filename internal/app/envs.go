package app

import (
	"context"
	"fmt"
	"shopkeeper/internal/entity"
	"shopkeeper/pkg/logger"
	"strings"

	"golang.org/x/sync/errgroup"
)

const (
	statusSuccess = "✓ Success"
	statusFailed  = "✗ Failed"
)

type EnvStatus struct {
	Name string
	URL  string
	Err  error
}

func (s EnvStatus) OK() bool {
	return s.Err == nil
}

// Envs fetches the shop record of every configured store at once. A store
// that cannot be reached is reported as failed; it does not fail the command.
func (a *App) Envs(ctx context.Context) []EnvStatus {
	names := a.cfg.StoreNames()
	plural := ""
	if len(names) != 1 {
		plural = "s"
	}
	a.stage.StageStart(fmt.Sprintf("Verifying connectivity and API credentials for %d store%s", len(names), plural), 0)
	a.stage.StageMessage(" ")

	results := make([]EnvStatus, len(names))
	var g errgroup.Group
	for i, name := range names {
		s, _ := a.cfg.Store(name)
		results[i] = EnvStatus{Name: name, URL: s.URL}
		g.Go(func() error {
			shops, err := a.client(s).Fetch(ctx, entity.Shop)
			if err == nil && len(shops) == 0 {
				err = fmt.Errorf("empty shop response")
			}
			if err != nil {
				a.log.Warn("store '%s' is unavailable: %v", name, err)
			}
			results[i].Err = err
			return nil
		})
	}
	_ = g.Wait()

	for _, line := range envTable(results) {
		a.stage.StageMessage(line)
	}
	return results
}

func envTable(results []EnvStatus) []string {
	nameWidth, urlWidth := len("Name"), len("URL")
	for _, r := range results {
		nameWidth = max(nameWidth, len(r.Name))
		urlWidth = max(urlWidth, len(r.URL))
	}

	row := func(name, url, status string) string {
		return strings.TrimRight(fmt.Sprintf("%s | %s | %s", logger.PadRight(name, nameWidth), logger.PadRight(url, urlWidth), status), " ")
	}
	lines := []string{
		row("Name", "URL", "Status"),
		strings.Repeat("-", nameWidth+urlWidth+len(statusSuccess)+6),
	}
	for _, r := range results {
		status := statusSuccess
		if !r.OK() {
			status = statusFailed
		}
		lines = append(lines, row(r.Name, r.URL, status))
	}
	return lines
}
