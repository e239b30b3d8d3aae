package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	intelmesh "github.com/intelmesh/intelmesh-go"
)

func forecastCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Query the platform's forecasts for entities and relationships",
	}

	cmd.AddCommand(
		forecastRelationshipCmd(),
		forecastAttributeCmd(),
		forecastLinksCmd(),
		forecastLinksStatisticCmd(),
	)

	return cmd
}

func forecastRelationshipCmd() *cobra.Command {
	var at string
	var valuableFacts bool
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   "relationship <source-uuid> <kind> <target-uuid>",
		Short: "Forecast the confidence of one relationship between two entities",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			sourceUUID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("forecast relationship: parsing source uuid: %w", err)
			}
			kind, err := intelmesh.ParseRelationshipKind(args[1])
			if err != nil {
				return fmt.Errorf("forecast relationship: %w", err)
			}
			targetUUID, err := uuid.Parse(args[2])
			if err != nil {
				return fmt.Errorf("forecast relationship: parsing target uuid: %w", err)
			}

			var opts intelmesh.RelationshipForecastOpts
			opts.ForecastAt, err = parseForecastAt(at)
			if err != nil {
				return fmt.Errorf("forecast relationship: %w", err)
			}
			if valuableFacts {
				opts.ValuableFacts = intelmesh.Bool(true)
			}

			client, err := newClient(logger)
			if err != nil {
				return fmt.Errorf("forecast relationship: %w", err)
			}

			forecast, err := client.Relationships.Forecast(ctx, sourceUUID, targetUUID, kind, &opts)
			if err != nil {
				return fmt.Errorf("forecast relationship: %w", err)
			}

			if outputJSON {
				out, marshalErr := json.MarshalIndent(forecast.Raw(), "", "  ")
				if marshalErr != nil {
					return fmt.Errorf("forecast relationship: marshaling JSON: %w", marshalErr)
				}
				fmt.Println(string(out))
				return nil
			}

			confidence, err := forecast.Confidence()
			if err != nil {
				return fmt.Errorf("forecast relationship: %w", err)
			}
			fmt.Printf("Confidence:  %.7f\n", confidence)

			facts, ok, err := forecast.ValuableFacts()
			if err != nil {
				return fmt.Errorf("forecast relationship: %w", err)
			}
			if ok {
				fmt.Printf("Valuable facts:\n")
				for _, fact := range facts {
					if err := printValuableFact(fact); err != nil {
						return fmt.Errorf("forecast relationship: %w", err)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "forecast at this RFC3339 time instead of now")
	cmd.Flags().BoolVar(&valuableFacts, "valuable-facts", false, "include the facts the forecast is built on")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")

	return cmd
}

func printValuableFact(fact intelmesh.ValuableFactView) error {
	seenAt, err := fact.SeenAt()
	if err != nil {
		return err
	}
	confidence, err := fact.Confidence()
	if err != nil {
		return err
	}
	finalConfidence, err := fact.FinalConfidence()
	if err != nil {
		return err
	}
	fmt.Printf("  %s  confidence %.7f  final %.7f\n",
		seenAt.Format(time.RFC3339), confidence, finalConfidence)
	return nil
}

func forecastAttributeCmd() *cobra.Command {
	var at string
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   "attribute <entity-uuid> <attribute-name>",
		Short: "Forecast the values of an entity's attribute",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			entityUUID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("forecast attribute: parsing entity uuid: %w", err)
			}
			attribute, err := intelmesh.ParseAttributeName(args[1])
			if err != nil {
				return fmt.Errorf("forecast attribute: %w", err)
			}

			var opts intelmesh.AttributeForecastOpts
			opts.ForecastAt, err = parseForecastAt(at)
			if err != nil {
				return fmt.Errorf("forecast attribute: %w", err)
			}

			client, err := newClient(logger)
			if err != nil {
				return fmt.Errorf("forecast attribute: %w", err)
			}

			forecast, err := client.Entities.ForecastAttributeValues(ctx, entityUUID, attribute, &opts)
			if err != nil {
				return fmt.Errorf("forecast attribute: %w", err)
			}

			if outputJSON {
				out, marshalErr := json.MarshalIndent(forecast.Raw(), "", "  ")
				if marshalErr != nil {
					return fmt.Errorf("forecast attribute: marshaling JSON: %w", marshalErr)
				}
				fmt.Println(string(out))
				return nil
			}

			hasConflicts, err := forecast.HasConflicts()
			if err != nil {
				return fmt.Errorf("forecast attribute: %w", err)
			}
			values, err := forecast.Values()
			if err != nil {
				return fmt.Errorf("forecast attribute: %w", err)
			}

			fmt.Printf("Has conflicts:  %t\n", hasConflicts)
			for _, v := range values {
				value, err := v.Value()
				if err != nil {
					return fmt.Errorf("forecast attribute: %w", err)
				}
				confidence, err := v.Confidence()
				if err != nil {
					return fmt.Errorf("forecast attribute: %w", err)
				}
				fmt.Printf("  %-20v confidence %.7f\n", value, confidence)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "forecast at this RFC3339 time instead of now")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")

	return cmd
}

func forecastLinksCmd() *cobra.Command {
	var at string
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   "links <entity-uuid>",
		Short: "Forecast the links of an entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			entityUUID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("forecast links: parsing entity uuid: %w", err)
			}

			var opts intelmesh.LinkForecastOpts
			opts.ForecastAt, err = parseForecastAt(at)
			if err != nil {
				return fmt.Errorf("forecast links: %w", err)
			}

			client, err := newClient(logger)
			if err != nil {
				return fmt.Errorf("forecast links: %w", err)
			}

			links, err := client.Entities.ForecastLinks(ctx, entityUUID, &opts)
			if err != nil {
				return fmt.Errorf("forecast links: %w", err)
			}

			if outputJSON {
				docs := make([]map[string]any, len(links))
				for i, link := range links {
					docs[i] = link.Raw()
				}
				out, marshalErr := json.MarshalIndent(docs, "", "  ")
				if marshalErr != nil {
					return fmt.Errorf("forecast links: marshaling JSON: %w", marshalErr)
				}
				fmt.Println(string(out))
				return nil
			}

			if len(links) == 0 {
				fmt.Println("No links forecasted.")
				return nil
			}
			for _, forecasted := range links {
				link, err := forecasted.Link()
				if err != nil {
					return fmt.Errorf("forecast links: %w", err)
				}
				direction, err := link.Direction()
				if err != nil {
					return fmt.Errorf("forecast links: %w", err)
				}
				kind, err := link.RelationKind()
				if err != nil {
					return fmt.Errorf("forecast links: %w", err)
				}
				related, err := link.RelatedEntity()
				if err != nil {
					return fmt.Errorf("forecast links: %w", err)
				}
				relatedUUID, err := related.UUID()
				if err != nil {
					return fmt.Errorf("forecast links: %w", err)
				}
				confidence, err := forecasted.Confidence()
				if err != nil {
					return fmt.Errorf("forecast links: %w", err)
				}
				fmt.Printf("%-36s  %-8s  %-12s  %.7f\n", relatedUUID, direction, kind, confidence)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "forecast at this RFC3339 time instead of now")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")

	return cmd
}

func forecastLinksStatisticCmd() *cobra.Command {
	var at string
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   "links-statistic <entity-uuid>",
		Short: "Summarize an entity's forecasted links per link type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			entityUUID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("forecast links-statistic: parsing entity uuid: %w", err)
			}

			var opts intelmesh.LinkForecastOpts
			opts.ForecastAt, err = parseForecastAt(at)
			if err != nil {
				return fmt.Errorf("forecast links-statistic: %w", err)
			}

			client, err := newClient(logger)
			if err != nil {
				return fmt.Errorf("forecast links-statistic: %w", err)
			}

			stats, err := client.Entities.ForecastLinksStatistic(ctx, entityUUID, &opts)
			if err != nil {
				return fmt.Errorf("forecast links-statistic: %w", err)
			}

			if outputJSON {
				docs := make([]map[string]any, len(stats))
				for i, stat := range stats {
					docs[i] = stat.Raw()
				}
				out, marshalErr := json.MarshalIndent(docs, "", "  ")
				if marshalErr != nil {
					return fmt.Errorf("forecast links-statistic: marshaling JSON: %w", marshalErr)
				}
				fmt.Println(string(out))
				return nil
			}

			if len(stats) == 0 {
				fmt.Println("No links forecasted.")
				return nil
			}
			for _, stat := range stats {
				if err := printLinkStatistic(stat); err != nil {
					return fmt.Errorf("forecast links-statistic: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "forecast at this RFC3339 time instead of now")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")

	return cmd
}

func printLinkStatistic(stat intelmesh.LinkStatisticView) error {
	linkType, err := stat.LinkType()
	if err != nil {
		return err
	}
	direction, err := linkType.LinkDirection()
	if err != nil {
		return err
	}
	kind, err := linkType.RelationKind()
	if err != nil {
		return err
	}
	relatedType, err := linkType.RelatedEntitiesType()
	if err != nil {
		return err
	}
	counts, err := stat.Links()
	if err != nil {
		return err
	}
	total, err := counts.Total()
	if err != nil {
		return err
	}

	fmt.Printf("%-8s  %-12s  %-12s  total %d\n", direction, kind, relatedType, total)

	buckets, err := counts.DistributionByConfidence()
	if err != nil {
		return err
	}
	for _, bucket := range buckets {
		bounds, err := bucket.ConfidenceRange()
		if err != nil {
			return err
		}
		count, err := bucket.Count()
		if err != nil {
			return err
		}
		if count == 0 {
			continue
		}
		fmt.Printf("  [%.1f;%.1f)  %d\n", bounds[0], bounds[1], count)
	}
	return nil
}
