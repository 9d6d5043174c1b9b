package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/akinus/organize/pkg/organizer"
)

// Sentinel choices returned by promptDestination alongside folder names.
const (
	choiceOther  = "__other__"
	choiceNew    = "__new__"
	choiceDelete = "__delete__"
	choiceSkip   = "__skip__"
)

// runWithHelp wraps a huh field in a Form with help hints visible at the bottom.
func runWithHelp(fields ...huh.Field) error {
	return huh.NewForm(huh.NewGroup(fields...)).WithShowHelp(true).Run()
}

// promptDestination shows the ranked suggestions for a file plus the
// manual escape hatches. The first suggestion is preselected.
func promptDestination(fileName string, suggestions []organizer.Suggestion) (string, error) {
	opts := make([]huh.Option[string], 0, len(suggestions)+4)
	for i, s := range suggestions {
		label := fmt.Sprintf("%s (confidence: %.3f)", s.Folder, s.Confidence)
		opt := huh.NewOption(label, s.Folder)
		if i == 0 {
			opt = opt.Selected(true)
		}
		opts = append(opts, opt)
	}
	opts = append(opts,
		huh.NewOption("Other folder...", choiceOther),
		huh.NewOption("New folder...", choiceNew),
		huh.NewOption("Move to trash", choiceDelete),
		huh.NewOption("Skip", choiceSkip),
	)

	var value string
	sel := huh.NewSelect[string]().
		Title(fmt.Sprintf("Where should %q go?", fileName)).
		Options(opts...).
		Value(&value)

	if err := runWithHelp(sel); err != nil {
		return "", err
	}
	return value, nil
}

// promptFolderName asks for a folder name typed in full.
func promptFolderName(title string) (string, error) {
	var value string
	inp := huh.NewInput().
		Title(title).
		Description("Relative to the workspace root").
		Value(&value)

	if err := runWithHelp(inp); err != nil {
		return "", err
	}
	return organizer.SanitizeFolder(value), nil
}

// confirmTrash requires an explicit confirmation before a file is
// moved to the trash.
func confirmTrash(fileName string) (bool, error) {
	var confirmed bool
	c := huh.NewConfirm().
		Title(fmt.Sprintf("Move %q to trash?", fileName)).
		Description("Trashed files are kept until the retention period expires").
		Affirmative("Trash it").
		Negative("Cancel").
		Value(&confirmed)

	if err := runWithHelp(c); err != nil {
		return false, err
	}
	return confirmed, nil
}

// confirmGlobalSave asks whether a medium-confidence decision should
// be shared across workspaces.
func confirmGlobalSave(folder string) (bool, error) {
	var confirmed bool
	c := huh.NewConfirm().
		Title("Save this rule globally?").
		Description(fmt.Sprintf("Files like this would go to %q in every workspace", folder)).
		Affirmative("Save globally").
		Negative("This workspace only").
		Value(&confirmed)

	if err := runWithHelp(c); err != nil {
		return false, err
	}
	return confirmed, nil
}
