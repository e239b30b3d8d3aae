package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	intelmesh "github.com/intelmesh/intelmesh-go"
)

func vocabCmd() *cobra.Command {
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   "vocab [set]",
		Short: "List the closed vocabularies the API accepts",
		Long: `List the closed vocabularies the API accepts.

Without arguments every set is printed. Pass a set name to print one:
entity-types, entity-key-types, attribute-names, relationship-kinds,
share-levels, observation-types, link-directions.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sets := vocabularySets()

			if len(args) == 1 {
				values, ok := sets[args[0]]
				if !ok {
					names := make([]string, 0, len(sets))
					for name := range sets {
						names = append(names, name)
					}
					sort.Strings(names)
					return fmt.Errorf("vocab: unknown set %q: want one of %s", args[0], strings.Join(names, ", "))
				}
				sets = map[string][]string{args[0]: values}
			}

			if outputJSON {
				out, err := json.MarshalIndent(sets, "", "  ")
				if err != nil {
					return fmt.Errorf("vocab: marshaling JSON: %w", err)
				}
				fmt.Println(string(out))
				return nil
			}

			names := make([]string, 0, len(sets))
			for name := range sets {
				names = append(names, name)
			}
			sort.Strings(names)
			for i, name := range names {
				if i > 0 {
					fmt.Println()
				}
				fmt.Printf("%s:\n", name)
				for _, value := range sets[name] {
					fmt.Printf("  %s\n", value)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")

	return cmd
}

func vocabularySets() map[string][]string {
	return map[string][]string{
		"entity-types":       vocabStrings(intelmesh.ValidEntityTypes),
		"entity-key-types":   vocabStrings(intelmesh.ValidEntityKeyTypes),
		"attribute-names":    vocabStrings(intelmesh.ValidAttributeNames),
		"relationship-kinds": vocabStrings(intelmesh.ValidRelationshipKinds),
		"share-levels":       vocabStrings(intelmesh.ValidShareLevels),
		"observation-types":  vocabStrings(intelmesh.ValidObservationTypes),
		"link-directions":    vocabStrings(intelmesh.ValidLinkDirections),
	}
}

func vocabStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
