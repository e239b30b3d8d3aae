package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/intelmesh/intelmesh-go/internal/obsfile"
)

func observationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "observation",
		Short: "Register and inspect generic observations",
	}

	cmd.AddCommand(
		observationRegisterCmd(),
		observationViewCmd(),
	)

	return cmd
}

func observationRegisterCmd() *cobra.Command {
	var file string
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   "register --file <observation.yaml>",
		Short: "Register a generic observation described in a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			form, err := obsfile.Load(file)
			if err != nil {
				return fmt.Errorf("observation register: %w", err)
			}

			client, err := newClient(logger)
			if err != nil {
				return fmt.Errorf("observation register: %w", err)
			}

			ref, err := client.Observations.Register(ctx, form)
			if err != nil {
				return fmt.Errorf("observation register: %w", err)
			}

			if outputJSON {
				out, marshalErr := json.MarshalIndent(ref.Raw(), "", "  ")
				if marshalErr != nil {
					return fmt.Errorf("observation register: marshaling JSON: %w", marshalErr)
				}
				fmt.Println(string(out))
				return nil
			}

			id, err := ref.UUID()
			if err != nil {
				return fmt.Errorf("observation register: %w", err)
			}
			fmt.Printf("UUID:  %s\n", id)
			if url, ok, urlErr := ref.URL(); urlErr == nil && ok {
				fmt.Printf("URL:   %s\n", url)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "path to the observation YAML file (required)")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func observationViewCmd() *cobra.Command {
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   "view <observation-uuid>",
		Short: "Fetch one generic observation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			observationUUID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("observation view: parsing uuid: %w", err)
			}

			client, err := newClient(logger)
			if err != nil {
				return fmt.Errorf("observation view: %w", err)
			}

			view, err := client.Observations.View(ctx, observationUUID)
			if err != nil {
				return fmt.Errorf("observation view: %w", err)
			}

			if outputJSON {
				out, marshalErr := json.MarshalIndent(view.Raw(), "", "  ")
				if marshalErr != nil {
					return fmt.Errorf("observation view: marshaling JSON: %w", marshalErr)
				}
				fmt.Println(string(out))
				return nil
			}

			level, err := view.ShareLevel()
			if err != nil {
				return fmt.Errorf("observation view: %w", err)
			}
			seenAt, err := view.SeenAt()
			if err != nil {
				return fmt.Errorf("observation view: %w", err)
			}
			content, err := view.Content()
			if err != nil {
				return fmt.Errorf("observation view: %w", err)
			}
			facts, err := content.EntityAttributeValues()
			if err != nil {
				return fmt.Errorf("observation view: %w", err)
			}
			relationships, err := content.EntityRelationships()
			if err != nil {
				return fmt.Errorf("observation view: %w", err)
			}

			fmt.Printf("Share level:      %s\n", level)
			fmt.Printf("Seen at:          %s\n", seenAt.Format(time.RFC3339))
			if registeredAt, regErr := view.RegisteredAt(); regErr == nil {
				fmt.Printf("Registered at:    %s\n", registeredAt.Format(time.RFC3339))
			}
			fmt.Printf("Attribute facts:  %d\n", len(facts))
			fmt.Printf("Relationships:    %d\n", len(relationships))
			return nil
		},
	}

	cmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")

	return cmd
}
