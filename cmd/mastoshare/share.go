package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"anime.bike/mastoshare/pkg/i18n"
	"anime.bike/mastoshare/pkg/identifier"
	"anime.bike/mastoshare/pkg/navigation"
	"anime.bike/mastoshare/pkg/share"
)

type ShareCmd struct {
	Identifier   string `arg:"" optional:"" help:"Profile URL or @user@domain (defaults to the saved one)"`
	Text         string `short:"t" help:"Text of the post"`
	URL          string `short:"u" name:"url" help:"URL of the post"`
	From         string `help:"Gateway URL whose text and url query parameters hold the post"`
	Save         bool   `short:"s" help:"Save the user ID for next time"`
	AutoRedirect bool   `short:"a" help:"Share without asking from next time (implies --save)"`
	Print        bool   `short:"p" help:"Print the share URL instead of opening a browser"`
}

func (cmd *ShareCmd) Run(ctx context.Context, g *Globals) error {
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

	payload, err := buildPayload(cmd.From, cmd.Text, cmd.URL)
	if err != nil {
		return err
	}

	var nav share.Navigator = navigation.NewBrowser(os.Stdout, a.logger)
	if cmd.Print {
		nav = navigation.NewPrinter(os.Stdout)
	}
	gw, err := a.gateway(store, a.resolver(), nav)
	if err != nil {
		return err
	}

	id := strings.TrimSpace(cmd.Identifier)
	if id == "" {
		decision, err := gw.AutoRedirect(ctx, payload)
		if err != nil {
			return userError(tag, err)
		}
		switch decision {
		case share.RedirectNavigated:
			return nil
		case share.RedirectExpired:
			fmt.Fprintln(os.Stderr, i18n.T(tag, i18n.AutoRedirectExpired))
		}
		id = gw.Defaults(ctx).Identifier
	}

	_, err = gw.Submit(ctx, payload, share.Submission{
		Identifier:            id,
		SaveIdentifier:        cmd.Save,
		RedirectAutomatically: cmd.AutoRedirect,
	})
	if err != nil {
		return userError(tag, err)
	}
	return nil
}

// buildPayload combines --from with --text and --url, the flags winning.
func buildPayload(from, text, link string) (*share.Payload, error) {
	p := share.NewPayload(text, link)
	if from == "" {
		return p, nil
	}

	fp, err := share.PayloadFromURL(from)
	if err != nil {
		return nil, fmt.Errorf("parse --from: %w", err)
	}
	if fp == nil {
		return p, nil
	}
	if p != nil {
		if p.Text != nil {
			fp.Text = p.Text
		}
		if p.URL != nil {
			fp.URL = p.URL
		}
	}
	return fp, nil
}

type ResolveCmd struct {
	Identifier string `arg:"" help:"Profile URL or @user@domain"`
	Raw        bool   `short:"r" help:"Output the raw WebFinger response"`
}

func (cmd *ResolveCmd) Run(ctx context.Context, g *Globals) error {
	a, err := g.open()
	if err != nil {
		return err
	}
	defer a.Close()

	if cmd.Raw {
		return cmd.printRaw(ctx, a)
	}

	store, err := a.store()
	if err != nil {
		return err
	}
	gw, err := a.gateway(store, a.resolver(), navigation.NewPrinter(os.Stdout))
	if err != nil {
		return err
	}

	res, err := gw.Resolve(ctx, cmd.Identifier)
	if err != nil {
		return userError(cliLanguage(ctx, store), err)
	}

	fmt.Printf("Profile URL: %s\n", res.ProfileURL)
	fmt.Printf("Origin: %s\n", res.Origin())
	if res.ViaWebFinger {
		fmt.Printf("Discovery URL: %s\n", res.Identifier.DiscoveryURL)
	}
	return nil
}

func (cmd *ResolveCmd) printRaw(ctx context.Context, a *app) error {
	id, err := identifier.Parse(strings.TrimSpace(cmd.Identifier))
	if err != nil {
		return err
	}
	if id.Kind != identifier.KindHandle {
		return errors.New("--raw needs a @user@domain handle")
	}

	body, err := a.resolver().FetchRaw(ctx, id.DiscoveryURL)
	if err != nil {
		return err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, body, "", "  "); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	fmt.Println(out.String())
	return nil
}
