package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sigs.k8s.io/yaml"

	"anime.bike/mastoshare/pkg/i18n"
	"anime.bike/mastoshare/pkg/prefs"
)

type PrefsCmd struct {
	Show  PrefsShowCmd  `cmd:"" default:"1" help:"Print the saved preferences"`
	Reset PrefsResetCmd `cmd:"" help:"Remove the saved preferences"`
	Lang  PrefsLangCmd  `cmd:"" help:"Set the preferred language"`
}

type PrefsShowCmd struct {
	YAML bool `name:"yaml" help:"Output YAML instead of JSON"`
}

type PrefsResetCmd struct {
	Force bool `short:"f" help:"Remove without confirmation"`
}

type PrefsLangCmd struct {
	Language string `arg:"" enum:"en,ja" help:"Language code (en or ja)"`
}

func (cmd *PrefsShowCmd) Run(ctx context.Context, g *Globals) error {
	a, err := g.open()
	if err != nil {
		return err
	}
	defer a.Close()

	store, err := a.store()
	if err != nil {
		return err
	}
	raw, err := store.Raw(ctx)
	if err != nil {
		return err
	}
	if raw == nil {
		fmt.Println(i18n.T(cliLanguage(ctx, store), i18n.ResetNoData))
		return nil
	}

	out, err := formatRecord(raw, cmd.YAML)
	if err != nil {
		return err
	}
	fmt.Print(out)

	if !cmd.YAML {
		rec, err := store.Get(ctx)
		if err != nil {
			return err
		}
		if rec == nil {
			fmt.Println("Status: invalid (ignored)")
		} else {
			fmt.Printf("Auto-redirect: %s\n", prefs.RedirectStatusOf(rec, time.Now()))
		}
	}
	return nil
}

// formatRecord renders the stored bytes as indented JSON or as YAML.
func formatRecord(raw []byte, asYAML bool) (string, error) {
	if asYAML {
		y, err := yaml.JSONToYAML(raw)
		if err != nil {
			return "", fmt.Errorf("convert to YAML: %w", err)
		}
		return string(y), nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw) + "\n", nil
	}
	buf.WriteByte('\n')
	return buf.String(), nil
}

func (cmd *PrefsResetCmd) Run(ctx context.Context, g *Globals) error {
	a, err := g.open()
	if err != nil {
		return err
	}
	defer a.Close()

	store, err := a.store()
	if err != nil {
		return err
	}
	tag := cliLanguage(ctx, store)

	raw, err := store.Raw(ctx)
	if err != nil {
		return err
	}
	if raw == nil {
		fmt.Println(i18n.T(tag, i18n.ResetNoData))
		return nil
	}

	if !cmd.Force {
		fmt.Printf("%s? [y/N] ", i18n.T(tag, i18n.ResetTitle))
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Cancelled")
			return nil
		}
	}

	if err := store.Remove(ctx); err != nil {
		return err
	}
	fmt.Println(i18n.T(tag, i18n.ResetDone))
	return nil
}

func (cmd *PrefsLangCmd) Run(ctx context.Context, g *Globals) error {
	a, err := g.open()
	if err != nil {
		return err
	}
	defer a.Close()

	store, err := a.store()
	if err != nil {
		return err
	}
	if _, err := store.SetLanguage(ctx, cmd.Language); err != nil {
		return err
	}
	fmt.Printf("Language set to %s\n", cmd.Language)
	return nil
}
