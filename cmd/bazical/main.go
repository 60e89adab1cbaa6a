package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"bazical/internal/api"
	"bazical/internal/config"
	"bazical/internal/cycle"
	"bazical/internal/domain"
	"bazical/internal/forecast"
	"bazical/internal/logging"
	"bazical/internal/notes"
	"bazical/internal/storage"
	"bazical/internal/store"
)

var dbPath string

func main() {
	cfg := config.Load()

	rootCmd := &cobra.Command{
		Use:   "bazical",
		Short: "BaZi-aware calendar engine with signature-keyed behavior logs",
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", cfg.DBPath, "database path")

	rootCmd.AddCommand(todayCmd())
	rootCmd.AddCommand(logCmd())
	rootCmd.AddCommand(entriesCmd())
	rootCmd.AddCommand(tagsCmd())
	rootCmd.AddCommand(profileCmd())
	rootCmd.AddCommand(noteCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(serveCmd(cfg))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func getStore() (*store.Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	backend, err := storage.NewSQLite(dbPath)
	if err != nil {
		return nil, err
	}
	return store.New(backend), nil
}

func getNotesStore() (*notes.Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	backend, err := storage.NewSQLite(dbPath)
	if err != nil {
		return nil, err
	}
	return notes.New(backend.WithKey(notes.BlobKey)), nil
}

// parseDate accepts YYYY-MM-DD, defaulting to today when empty.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

// shortID abbreviates generated uuids for display. Imported snapshots may
// carry ids of any length, so short ones pass through untouched.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

var riskLabels = map[string]string{
	"high":   "🔴 high",
	"medium": "🟡 medium",
	"low":    "🟢 low",
}

func todayCmd() *cobra.Command {
	var dateStr string

	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show the day signature, pillars and risk for a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDate(dateStr)
			if err != nil {
				return err
			}

			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			day := forecast.ForDate(date, s)
			year, month, _ := date.Date()

			fmt.Printf("Date:       %s\n", day.Date)
			fmt.Printf("Signature:  %s\n", day.Signature)

			yp := cycle.YearPillar(year)
			zodiac := cycle.YearZodiac(year)
			fmt.Printf("Year:       %s%s %s %s\n", yp.Stem, yp.Branch, zodiac.Emoji, zodiac.Name)
			mp := cycle.MonthPillar(year, int(month)-1)
			fmt.Printf("Month:      %s%s (approx.)\n", mp.Stem, mp.Branch)

			lunar := cycle.Lunar(date)
			fmt.Printf("Lunar:      %s%s (approx.)\n", lunar.MonthName, lunar.DayName)
			if term, ok := cycle.SolarTerm(int(month), date.Day()); ok {
				fmt.Printf("Solar term: %s (%s)\n", term.Name, term.EN)
			}

			if day.HasProfile {
				fmt.Printf("Risk:       %s — %s\n", riskLabels[string(day.Risk.Level)], day.Risk.Reason)
			} else {
				fmt.Println("Risk:       no profile configured; treat as higher risk")
				fmt.Println("            (set one with 'bazical profile set')")
			}

			if day.Analysis != nil {
				fmt.Printf("\nPattern for %s: %d logs, most often %q\n",
					day.Signature, day.Analysis.TotalLogs, day.Analysis.TopTag)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "date to inspect (YYYY-MM-DD)")
	return cmd
}

func logCmd() *cobra.Command {
	var dateStr string

	cmd := &cobra.Command{
		Use:   "log [tag] [note...]",
		Short: "Log behavior against a day's signature",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDate(dateStr)
			if err != nil {
				return err
			}
			tag := args[0]
			note := strings.Join(args[1:], " ")

			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			signature := cycle.DaySignature(date)
			entry, err := s.AddEntry(signature, tag, note, date.Format("2006-01-02"))
			if err != nil {
				return err
			}

			fmt.Printf("Logged %q under %s (entry %s)\n", entry.Tag, signature, shortID(entry.ID))

			known := false
			for _, t := range s.Tags() {
				if t == tag {
					known = true
					break
				}
			}
			if !known {
				fmt.Printf("Note: %q is not in the tag vocabulary ('bazical tags' lists it)\n", tag)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "date the behavior occurred (YYYY-MM-DD)")
	return cmd
}

func entriesCmd() *cobra.Command {
	var dateStr string

	cmd := &cobra.Command{
		Use:   "entries [signature]",
		Short: "List logged entries for a signature or date",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var signature string
			if len(args) == 1 {
				signature = args[0]
				if !cycle.ValidSignature(signature) {
					return fmt.Errorf("invalid signature %q", signature)
				}
			} else {
				date, err := parseDate(dateStr)
				if err != nil {
					return err
				}
				signature = cycle.DaySignature(date)
			}

			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			entries := s.EntriesFor(signature)
			if len(entries) == 0 {
				fmt.Printf("No entries for %s yet. Use 'bazical log' to create one.\n", signature)
				return nil
			}

			fmt.Printf("Entries for %s:\n", signature)
			for _, e := range entries {
				line := fmt.Sprintf("%s  %s  %s", shortID(e.ID), e.Date, e.Tag)
				if e.Text != "" {
					line += "  — " + e.Text
				}
				fmt.Println(line)
			}

			a := store.Analyze(entries)
			fmt.Printf("\n%d logs, most often %q\n", a.TotalLogs, a.TopTag)
			for _, tc := range a.TagCounts {
				fmt.Printf("  %3d  %s\n", tc.Count, tc.Tag)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "date whose signature to inspect (YYYY-MM-DD)")
	return cmd
}

func tagsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List the behavior tag vocabulary",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			for _, t := range s.Tags() {
				fmt.Println(t)
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add [tag]",
		Short: "Add a tag to the vocabulary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			ok, err := s.AddTag(args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("tag %q is empty or already exists", strings.TrimSpace(args[0]))
			}
			fmt.Printf("Added tag %q\n", strings.TrimSpace(args[0]))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rm [tag]",
		Short: "Remove a tag from the vocabulary (existing entries keep it)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.DeleteTag(args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed tag %q\n", args[0])
			return nil
		},
	})

	return cmd
}

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or set the four-pillar chart",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the configured chart",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			p := s.Profile()
			if p == nil {
				fmt.Println("No profile configured. Use 'bazical profile set'.")
				return nil
			}

			fmt.Printf("Year:  %s%s\n", p.YearPillar.Stem, p.YearPillar.Branch)
			fmt.Printf("Month: %s%s\n", p.MonthPillar.Stem, p.MonthPillar.Branch)
			fmt.Printf("Day:   %s%s\n", p.DayPillar.Stem, p.DayPillar.Branch)
			fmt.Printf("Hour:  %s%s\n", p.HourPillar.Stem, p.HourPillar.Branch)
			return nil
		},
	})

	var yearStr, monthStr, dayStr, hourStr string
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Set the chart from four stem-branch pairs",
		RunE: func(cmd *cobra.Command, args []string) error {
			var p domain.Profile
			for _, pair := range []struct {
				name   string
				value  string
				pillar *domain.Pillar
			}{
				{"year", yearStr, &p.YearPillar},
				{"month", monthStr, &p.MonthPillar},
				{"day", dayStr, &p.DayPillar},
				{"hour", hourStr, &p.HourPillar},
			} {
				pillar, err := parsePillar(pair.value)
				if err != nil {
					return fmt.Errorf("--%s: %w", pair.name, err)
				}
				*pair.pillar = pillar
			}

			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.SaveProfile(p); err != nil {
				return err
			}
			fmt.Println("Profile saved.")
			return nil
		},
	}
	setCmd.Flags().StringVar(&yearStr, "year", "", "year pillar, e.g. 甲子")
	setCmd.Flags().StringVar(&monthStr, "month", "", "month pillar")
	setCmd.Flags().StringVar(&dayStr, "day", "", "day pillar")
	setCmd.Flags().StringVar(&hourStr, "hour", "", "hour pillar")
	setCmd.MarkFlagRequired("year")
	setCmd.MarkFlagRequired("month")
	setCmd.MarkFlagRequired("day")
	setCmd.MarkFlagRequired("hour")
	cmd.AddCommand(setCmd)

	return cmd
}

// parsePillar splits a two-character stem-branch pair like 甲子.
func parsePillar(s string) (domain.Pillar, error) {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) != 2 {
		return domain.Pillar{}, fmt.Errorf("want a stem-branch pair like 甲子, got %q", s)
	}
	stem, branch := string(runes[0]), string(runes[1])
	if !cycle.ValidStem(stem) {
		return domain.Pillar{}, fmt.Errorf("%q is not a heavenly stem", stem)
	}
	if !cycle.ValidBranch(branch) {
		return domain.Pillar{}, fmt.Errorf("%q is not an earthly branch", branch)
	}
	return domain.Pillar{Stem: stem, Branch: branch}, nil
}

func noteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Manage free-form calendar notes",
	}

	var addDate, addTime string
	var reminder bool
	addCmd := &cobra.Command{
		Use:   "add [text...]",
		Short: "Add a note to a calendar date",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if addDate != "" {
				if _, err := parseDate(addDate); err != nil {
					return err
				}
			}

			n, err := getNotesStore()
			if err != nil {
				return err
			}
			defer n.Close()

			note, err := n.Add(addDate, addTime, strings.Join(args, " "), reminder)
			if err != nil {
				return err
			}
			fmt.Printf("Noted for %s (note %s)\n", note.Date, shortID(note.ID))
			return nil
		},
	}
	addCmd.Flags().StringVar(&addDate, "date", "", "date the note belongs to (YYYY-MM-DD, default today)")
	addCmd.Flags().StringVar(&addTime, "time", "", "optional time of day, e.g. 18:30")
	addCmd.Flags().BoolVar(&reminder, "reminder", false, "mark the note as a reminder")
	cmd.AddCommand(addCmd)

	var listDate string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List notes, optionally for one date",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := getNotesStore()
			if err != nil {
				return err
			}
			defer n.Close()

			var all []notes.Note
			if listDate != "" {
				if _, err := parseDate(listDate); err != nil {
					return err
				}
				all = n.ForDate(listDate)
			} else {
				all = n.All()
			}

			if len(all) == 0 {
				fmt.Println("No notes yet. Use 'bazical note add'.")
				return nil
			}
			for _, note := range all {
				line := fmt.Sprintf("%s  %s", shortID(note.ID), note.Date)
				if note.Time != "" {
					line += " " + note.Time
				}
				line += "  " + note.Text
				if note.Reminder {
					line += "  (reminder)"
				}
				fmt.Println(line)
			}
			return nil
		},
	}
	listCmd.Flags().StringVar(&listDate, "date", "", "only show notes for this date (YYYY-MM-DD)")
	cmd.AddCommand(listCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "rm [id]",
		Short: "Delete a note by its full id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := getNotesStore()
			if err != nil {
				return err
			}
			defer n.Close()

			if err := n.Delete(args[0]); err != nil {
				return err
			}
			fmt.Println("Note removed.")
			return nil
		},
	})

	return cmd
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export the full snapshot as JSON (stdout if no file)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			data, err := s.Export()
			if err != nil {
				return err
			}

			if len(args) == 0 {
				fmt.Println(string(data))
				return nil
			}
			if err := os.WriteFile(args[0], data, 0644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Printf("Exported to %s\n", args[0])
			return nil
		},
	}
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Replace the snapshot with an exported JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read import: %w", err)
			}

			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if !s.Import(data) {
				return fmt.Errorf("import rejected: file is invalid or corrupted (store unchanged)")
			}
			fmt.Println("Import successful.")
			return nil
		},
	}
}

func serveCmd(cfg config.Config) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(cfg.Logging)
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}
			defer logger.Sync()

			s, err := getStore()
			if err != nil {
				return err
			}
			n, err := getNotesStore()
			if err != nil {
				return err
			}
			// Note: don't defer Close() as server runs indefinitely

			server := api.New(s, n, addr, logger)
			return server.Run()
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", cfg.Addr, "server address")
	return cmd
}
