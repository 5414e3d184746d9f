// Command search is a terminal front end for the catalog search. Each line
// read from stdin replaces the query; a line starting with "/" sets the
// category instead (e.g. "/movies", "/all"). Results print once typing pauses.
package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"funstar-catalog/internal/config"
	applog "funstar-catalog/internal/logger"
	"funstar-catalog/internal/searchclient"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(applog.New(cfg.Log))

	client := searchclient.New(
		searchclient.NewHTTPSearcher(cfg.Search.CatalogURL),
		searchclient.WithDebounce(cfg.Search.Debounce),
	)

	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for s := range client.Updates() {
			render(s)
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if cat, ok := strings.CutPrefix(line, "/"); ok {
			client.SetCategory(strings.TrimSpace(cat))
			continue
		}
		client.SetQuery(line)
	}

	// let the last query finish when input is piped
	deadline := time.Now().Add(20 * time.Second)
	for busy(client.Snapshot()) && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	client.Close()
	<-printed
}

func busy(s searchclient.State) bool {
	return s.Phase == searchclient.PhasePending || s.Phase == searchclient.PhaseInFlight
}

func render(s searchclient.State) {
	switch {
	case s.Closed():
		return
	case s.IsLoading:
		fmt.Printf("searching %q in %s...\n", s.Query, s.Category)
	case s.Err != nil:
		fmt.Println(s.Err)
	case s.Phase == searchclient.PhaseSettled:
		fmt.Printf("%d result(s) for %q in %s\n", len(s.Results), s.Query, s.Category)
		for _, m := range s.Results {
			fmt.Printf("  %-24s %-18s %s\n", m.Title, m.Category, strings.Join(m.Genre, ", "))
		}
	}
}
