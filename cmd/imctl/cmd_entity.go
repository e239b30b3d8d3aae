package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	intelmesh "github.com/intelmesh/intelmesh-go"
)

func entityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entity",
		Short: "Register observable entities",
	}

	cmd.AddCommand(
		entityRegisterCmd(),
	)

	return cmd
}

func entityRegisterCmd() *cobra.Command {
	var entityType string
	var keys []string
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   "register --type <entity-type> --key TYPE=VALUE [--key TYPE=VALUE...]",
		Short: "Register an entity by its natural keys, or look up the existing one",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			parsedType, err := intelmesh.ParseEntityType(entityType)
			if err != nil {
				return fmt.Errorf("entity register: %w", err)
			}

			form := intelmesh.NewEntityForm(parsedType)
			for _, pair := range keys {
				keyType, value, found := strings.Cut(pair, "=")
				if !found || value == "" {
					return fmt.Errorf("entity register: key %q: want TYPE=VALUE", pair)
				}
				parsedKeyType, err := intelmesh.ParseEntityKeyType(keyType)
				if err != nil {
					return fmt.Errorf("entity register: key %q: %w", pair, err)
				}
				form.AddKey(parsedKeyType, value)
			}

			client, err := newClient(logger)
			if err != nil {
				return fmt.Errorf("entity register: %w", err)
			}

			ref, err := client.Entities.Register(ctx, form)
			if err != nil {
				return fmt.Errorf("entity register: %w", err)
			}

			if outputJSON {
				out, marshalErr := json.MarshalIndent(ref.Raw(), "", "  ")
				if marshalErr != nil {
					return fmt.Errorf("entity register: marshaling JSON: %w", marshalErr)
				}
				fmt.Println(string(out))
				return nil
			}

			id, err := ref.UUID()
			if err != nil {
				return fmt.Errorf("entity register: %w", err)
			}
			fmt.Printf("UUID:  %s\n", id)
			if url, ok, urlErr := ref.URL(); urlErr == nil && ok {
				fmt.Printf("URL:   %s\n", url)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&entityType, "type", "", "entity type, e.g. DomainName (required)")
	cmd.Flags().StringArrayVar(&keys, "key", nil, "natural key as TYPE=VALUE, repeatable (required)")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}
