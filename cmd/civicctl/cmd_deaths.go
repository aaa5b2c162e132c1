// Copyright (c) 2026 CivicLedger. All rights reserved.
// Author: mohan.sharma.dev@gmail.com

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mohansharma/civicledger/internal/records"
)

// # Death Record Commands

var createDeathCmd = &cobra.Command{
	Use:   "create_death <json>",
	Short: "Register a new death record",
	Long: `Register a new death record from a JSON payload.

Required fields: registration_no, name, dod.
Optional fields: place, cause.

Example:
  civicctl create_death '{"registration_no":"D-2026-104","name":"K. Iyer","dod":"2026-03-02","cause":"natural"}'`,
	Args: cobra.ExactArgs(1),
	RunE: runCreateDeath,
}

var getDeathCmd = &cobra.Command{
	Use:   "get_death <registration_no>",
	Short: "Fetch one death record by registration number",
	Args:  cobra.ExactArgs(1),
	RunE:  runGetDeath,
}

var listDeathsCmd = &cobra.Command{
	Use:   "list_deaths",
	Short: "List death records, newest first",
	Args:  cobra.NoArgs,
	RunE:  runListDeaths,
}

var searchDeathsCmd = &cobra.Command{
	Use:   "search_deaths <json-filter>",
	Short: "Search death records with a document filter",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearchDeaths,
}

var updateDeathCmd = &cobra.Command{
	Use:   "update_death <registration_no> <json>",
	Short: "Update mutable fields of a death record",
	Long: `Update a death record. Mutable fields: name, place, cause.

A field omitted from the payload is left untouched; an explicit null clears
it. registration_no and created_at can never be changed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpdateDeath,
}

var deleteDeathCmd = &cobra.Command{
	Use:   "delete_death <registration_no>",
	Short: "Delete a death record by registration number",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeleteDeath,
}

func runCreateDeath(cmd *cobra.Command, args []string) error {
	var input records.DeathInput
	if err := json.Unmarshal([]byte(args[0]), &input); err != nil {
		return fmt.Errorf("payload is not valid JSON: %w", err)
	}

	id, err := svc.CreateDeath(cmd.Context(), input)
	if err != nil {
		return err
	}

	fmt.Printf("Created death record (id %s)\n", id)
	return nil
}

func runGetDeath(cmd *cobra.Command, args []string) error {
	record, err := svc.GetDeath(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printJSON(record)
}

func runListDeaths(cmd *cobra.Command, args []string) error {
	results, err := svc.ListDeaths(cmd.Context(), listLimit)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "%d record(s)\n", len(results))
	return printJSON(results)
}

func runSearchDeaths(cmd *cobra.Command, args []string) error {
	filter, err := parseFilter(args[0])
	if err != nil {
		return err
	}

	results, err := svc.SearchDeaths(cmd.Context(), filter, listLimit)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "%d record(s)\n", len(results))
	return printJSON(results)
}

func runUpdateDeath(cmd *cobra.Command, args []string) error {
	var update records.DeathUpdate
	regno, err := decodeUpdatePayload(args, &update)
	if err != nil {
		return err
	}

	matched, err := svc.UpdateDeath(cmd.Context(), regno, update)
	if err != nil {
		return err
	}

	fmt.Printf("Updated %d record(s)\n", matched)
	return nil
}

func runDeleteDeath(cmd *cobra.Command, args []string) error {
	deleted, err := svc.DeleteDeath(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Deleted %d record(s)\n", deleted)
	return nil
}
