package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"resodo-gateway/resolution/application"
	"resodo-gateway/resolution/domain"
	"resodo-gateway/resolution/infra"

	"github.com/spf13/cobra"
)

func windowCmd(g *globalFlags) *cobra.Command {
	var (
		file         string
		contextChars int
	)
	cmd := &cobra.Command{
		Use:   "window",
		Short: "Print the contact window extracted from a page text",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if contextChars <= 0 {
				cfg, err := infra.LoadPipelineConfig(g.configPath)
				if err != nil {
					return err
				}
				contextChars = cfg.ContextChars
			}
			text, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			window, ok := application.ExtractContactWindow(text, contextChars)
			if !ok {
				return errors.New("no email or phone number found")
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), window)
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "Page text (markdown); - reads stdin")
	cmd.Flags().IntVar(&contextChars, "context", 0, "Characters of context on each side (default from config)")
	return cmd
}

func composeCmd(g *globalFlags) *cobra.Command {
	var (
		file               string
		outDir             string
		respondent         string
		filer              string
		respondentContacts []string
		filerContacts      []string
	)
	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Render a letter text into the demand PDF",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := infra.LoadPipelineConfig(g.configPath)
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = cfg.OutputDir
			}
			text, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			text, err = application.ValidateLegalDocument(text)
			if err != nil {
				return err
			}

			var respondentInfo any
			if len(respondentContacts) > 0 {
				respondentInfo = respondentContacts
			}
			composer := infra.NewPDFComposer(outDir, cfg.Sanitize.Sanitizer())
			doc, err := composer.Compose(cmd.Context(), domain.DocumentInput{
				LegalText:          text,
				RespondentName:     respondent,
				FilerName:          filer,
				RespondentContacts: respondentInfo,
				FilerContacts:      filerContacts,
				Date:               time.Now(),
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s (%d pages, %d bytes)\n", doc.Path, doc.Pages, doc.Size)
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "Letter body text; - reads stdin")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (default from config)")
	cmd.Flags().StringVar(&respondent, "respondent", "", "Respondent name")
	cmd.Flags().StringVar(&filer, "filer", "", "Filer name")
	cmd.Flags().StringArrayVar(&respondentContacts, "respondent-contact", nil, "Respondent contact (repeatable)")
	cmd.Flags().StringArrayVar(&filerContacts, "filer-contact", nil, "Filer contact (repeatable)")
	_ = cmd.MarkFlagRequired("respondent")
	_ = cmd.MarkFlagRequired("filer")
	return cmd
}

func readInput(cmd *cobra.Command, file string) (string, error) {
	if file == "" || file == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		return string(b), err
	}
	b, err := os.ReadFile(file)
	return string(b), err
}
