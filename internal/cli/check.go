package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/techvote/techvote/internal/database"
	"github.com/techvote/techvote/internal/models"
	"github.com/techvote/techvote/internal/report"
	"github.com/techvote/techvote/internal/rumor"
)

var (
	checkCategory string
	checkMedia    string
	checkJSON     bool
)

var checkCmd = &cobra.Command{
	Use:   "check [text]",
	Short: "Check a rumor from the terminal",
	Example: `  techvote check "The election has been postponed"
  techvote check --media poster.jpg "Is this poster real?"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		setupLogging(cfg.Logging)

		req, err := buildCheckRequest(strings.Join(args, " "), checkCategory, checkMedia)
		if err != nil {
			return err
		}

		store, err := database.Open(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		if store != nil {
			defer store.Close()
		}

		checker, err := newChecker(cfg, store)
		if err != nil {
			return err
		}

		out := checker.Check(cmd.Context(), req)
		if checkJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}
		printOutcome(cmd, out)
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkCategory, "category", rumor.DefaultCategory, "claim category")
	checkCmd.Flags().StringVar(&checkMedia, "media", "", "image or video file to attach")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print the outcome as JSON")

	rootCmd.AddCommand(checkCmd)
}

func buildCheckRequest(text, category, mediaPath string) (models.RumorCheckRequest, error) {
	req := models.RumorCheckRequest{Text: rumor.NormalizeText(text), Category: category}
	if mediaPath != "" {
		data, err := os.ReadFile(mediaPath)
		if err != nil {
			return req, fmt.Errorf("failed to read media: %w", err)
		}
		mimeType := http.DetectContentType(data)
		if !report.IsSupportedMedia(mimeType) {
			return req, fmt.Errorf("%w: %s is %s", report.ErrUnsupportedMedia, filepath.Base(mediaPath), mimeType)
		}
		req.Media = rumor.EncodeMedia(data, mimeType)
	}
	if !rumor.CanSubmit(req.Text, req.Media) {
		return req, errors.New("nothing to check: pass some text or --media")
	}
	return req, nil
}

func printOutcome(cmd *cobra.Command, out rumor.Outcome) {
	w := cmd.OutOrStdout()
	r := out.Result

	fmt.Fprintf(w, "Status:  %s\n", r.Status)
	if r.IsHarmful {
		fmt.Fprintln(w, "Harmful: yes")
	}
	fmt.Fprintf(w, "Source:  %s (%s)\n\n", out.Source, out.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "%s\n\n", r.Summary)
	fmt.Fprintln(w, "Questions to ask:")
	for _, q := range r.KeyQuestions {
		fmt.Fprintf(w, "  - %s\n", q)
	}
	fmt.Fprintf(w, "\nSafety tip: %s\n", r.SafetyTip)
}
