package main

import (
	"flag"
	"os"
)

func runPrefs(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("prefs", flag.ContinueOnError)
	language := fs.String("language", "", "set the display language")
	theme := fs.String("theme", "", "set the theme (light or dark)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	prefs, err := cmdCtx.App.Prefs.Load()
	if err != nil {
		return err
	}

	if *language != "" || *theme != "" {
		if *language != "" {
			prefs.Language = *language
		}
		if *theme != "" {
			prefs.Theme = *theme
		}
		if err := cmdCtx.App.Prefs.Save(prefs); err != nil {
			return err
		}
	}

	writef(os.Stdout, "language: %s\ntheme: %s\n", prefs.Language, prefs.Theme)
	return nil
}
