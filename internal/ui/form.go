package ui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Mohsinsiddi/lcurate/internal/listing"
	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// ErrAborted is returned when the user leaves a form.
var ErrAborted = errors.New("cancelled")

// Interactive reports whether stdin is a terminal a form can run on.
func Interactive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ListingForm asks for every listing field, starting from the values already
// in l. Fields are checked as they are entered.
func ListingForm(l *listing.Listing) error {
	values := map[string]*string{
		listing.LabelName:        &l.Name,
		listing.LabelDescription: &l.Description,
		listing.LabelNetwork:     &l.NetworkName,
		listing.LabelLocator:     &l.LocatorID,
		listing.LabelRepository:  &l.RepositoryURL,
		listing.LabelCommit:      &l.CommitHash,
		listing.LabelVersion:     &l.VersionTag,
		listing.LabelAdditional:  &l.AdditionalInfo,
	}

	var fields []huh.Field
	for _, col := range listing.Columns {
		label := col.Label
		validate := func(s string) error { return listing.ValidateField(label, s) }
		if col.Type == "long text" {
			fields = append(fields, huh.NewText().
				Title(col.Label).
				Description(col.Description).
				Value(values[col.Label]).
				Validate(validate))
			continue
		}
		fields = append(fields, huh.NewInput().
			Title(col.Label).
			Description(col.Description).
			Value(values[col.Label]).
			Validate(validate))
	}

	form := huh.NewForm(
		huh.NewGroup(fields[:4]...).Title("Frontend"),
		huh.NewGroup(fields[4:]...).Title("Source"),
	)
	return runForm(form, "listing form")
}

// EvidenceForm asks for an evidence title and description.
func EvidenceForm(title string, ev *listing.Evidence) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Evidence title").
				Value(&ev.Title).
				Validate(required("Please provide a title for your evidence")),
			huh.NewText().
				Title("Evidence description").
				Description("Explain why, with links where possible.").
				Value(&ev.Description).
				Validate(required("Please provide a description for your evidence")),
		).Title(title),
	)
	return runForm(form, "evidence form")
}

// Confirm shows pairs and asks a yes/no question.
func Confirm(title string, pairs [][2]string) (bool, error) {
	if len(pairs) > 0 {
		fmt.Println(KeyValueBlock("", pairs))
	}
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Approve").
				Negative("Reject").
				Value(&ok),
		),
	)
	if err := runForm(form, "confirmation"); err != nil {
		return false, err
	}
	return ok, nil
}

// Secret asks for a value without echoing it.
func Secret(title string) (string, error) {
	var v string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				EchoMode(huh.EchoModePassword).
				Validate(required(title + " is required")).
				Value(&v),
		),
	)
	if err := runForm(form, "secret input"); err != nil {
		return "", err
	}
	return strings.TrimSpace(v), nil
}

func runForm(f *huh.Form, what string) error {
	if err := f.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return fmt.Errorf("%s: %w", what, err)
	}
	return nil
}

func required(msg string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(msg)
		}
		return nil
	}
}
