// petctl es un cliente de línea de comandos para el API de mascotas.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"pet-registry/internal/adapters/petsapi"
	"pet-registry/internal/domain/pets"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration

	// flags de create/update
	petName        string
	petSpecies     string
	petAge         int
	petOwner       string
	ifMatch        int64
	idempotencyKey string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "petctl",
		Short:         "CLI for the pet registry API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultURL := os.Getenv("PETS_API_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080"
	}
	root.PersistentFlags().StringVar(&baseURL, "url", defaultURL, "base URL of the API")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all pets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := petsapi.New(baseURL, timeout)
			if err != nil {
				return err
			}
			all, err := c.List(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, all)
		},
	}

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a pet and its version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := petsapi.New(baseURL, timeout)
			if err != nil {
				return err
			}
			p, err := c.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printPet(cmd, p)
		},
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new pet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := petsapi.New(baseURL, timeout)
			if err != nil {
				return err
			}
			p, err := c.Create(cmd.Context(), inputFromFlags(cmd), idempotencyKey)
			if err != nil {
				return err
			}
			return printPet(cmd, p)
		},
	}
	addPetFlags(createCmd)
	createCmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "retry-safe key for the create request")

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a pet (use --version for optimistic locking)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := petsapi.New(baseURL, timeout)
			if err != nil {
				return err
			}

			var version *int64
			if cmd.Flags().Changed("version") {
				version = &ifMatch
			}
			p, err := c.Update(cmd.Context(), id, inputFromFlags(cmd), version)
			if err != nil {
				return err
			}
			return printPet(cmd, p)
		},
	}
	addPetFlags(updateCmd)
	updateCmd.Flags().Int64Var(&ifMatch, "version", 0, "expected current version")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a pet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := petsapi.New(baseURL, timeout)
			if err != nil {
				return err
			}
			deleted, err := c.Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !deleted {
				return &pets.NotFoundError{ID: id}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted pet %d\n", id)
			return nil
		},
	}

	root.AddCommand(listCmd, getCmd, createCmd, updateCmd, deleteCmd)
	return root
}

func addPetFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&petName, "name", "", "pet name")
	cmd.Flags().StringVar(&petSpecies, "species", "", "pet species")
	cmd.Flags().IntVar(&petAge, "age", 0, "pet age in years (optional)")
	cmd.Flags().StringVar(&petOwner, "owner", "", "owner name (optional)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("species")
}

// inputFromFlags: age y owner solo viajan si el flag se pasó.
func inputFromFlags(cmd *cobra.Command) petsapi.Input {
	in := petsapi.Input{Name: petName, Species: petSpecies}
	if cmd.Flags().Changed("age") {
		age := petAge
		in.Age = &age
	}
	if cmd.Flags().Changed("owner") {
		owner := petOwner
		in.OwnerName = &owner
	}
	return in
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid pet id %q", raw)
	}
	return id, nil
}

func printPet(cmd *cobra.Command, p petsapi.Pet) error {
	return printJSON(cmd, struct {
		petsapi.Pet
		Version int64 `json:"version"`
	}{p, p.Version})
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, pets.ErrNotFound):
		return 3
	case errors.Is(err, pets.ErrConcurrentModification):
		return 4
	case errors.Is(err, pets.ErrInvalidInput):
		return 2
	default:
		return 1
	}
}
