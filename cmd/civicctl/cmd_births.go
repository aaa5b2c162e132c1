// Copyright (c) 2026 CivicLedger. All rights reserved.
// Author: mohan.sharma.dev@gmail.com

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mohansharma/civicledger/internal/records"
)

// # Birth Record Commands

var createBirthCmd = &cobra.Command{
	Use:   "create_birth <json>",
	Short: "Register a new birth record",
	Long: `Register a new birth record from a JSON payload.

Required fields: registration_no, name, dob.
Optional fields: place, sex (M/F/O), parents.father, parents.mother.

Example:
  civicctl create_birth '{"registration_no":"B-2026-001","name":"Asha Rao","dob":"2026-01-15","place":"Pune"}'`,
	Args: cobra.ExactArgs(1),
	RunE: runCreateBirth,
}

var getBirthCmd = &cobra.Command{
	Use:   "get_birth <registration_no>",
	Short: "Fetch one birth record by registration number",
	Args:  cobra.ExactArgs(1),
	RunE:  runGetBirth,
}

var listBirthsCmd = &cobra.Command{
	Use:   "list_births",
	Short: "List birth records, newest first",
	Args:  cobra.NoArgs,
	RunE:  runListBirths,
}

var searchBirthsCmd = &cobra.Command{
	Use:   "search_births <json-filter>",
	Short: "Search birth records with a document filter",
	Long: `Search birth records using a JSON filter passed through to the store.

Example:
  civicctl search_births '{"place":"Pune"}' --limit 10`,
	Args: cobra.ExactArgs(1),
	RunE: runSearchBirths,
}

var updateBirthCmd = &cobra.Command{
	Use:   "update_birth <registration_no> <json>",
	Short: "Update mutable fields of a birth record",
	Long: `Update a birth record. Mutable fields: name, place, sex, parents.

A field omitted from the payload is left untouched; an explicit null clears
it. registration_no and created_at can never be changed.

Example:
  civicctl update_birth B-2026-001 '{"place":"Mumbai","parents":{"father":"R. Rao"}}'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpdateBirth,
}

var deleteBirthCmd = &cobra.Command{
	Use:   "delete_birth <registration_no>",
	Short: "Delete a birth record by registration number",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeleteBirth,
}

func runCreateBirth(cmd *cobra.Command, args []string) error {
	var input records.BirthInput
	if err := json.Unmarshal([]byte(args[0]), &input); err != nil {
		return fmt.Errorf("payload is not valid JSON: %w", err)
	}

	id, err := svc.CreateBirth(cmd.Context(), input)
	if err != nil {
		return err
	}

	fmt.Printf("Created birth record (id %s)\n", id)
	return nil
}

func runGetBirth(cmd *cobra.Command, args []string) error {
	record, err := svc.GetBirth(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printJSON(record)
}

func runListBirths(cmd *cobra.Command, args []string) error {
	results, err := svc.ListBirths(cmd.Context(), listLimit)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "%d record(s)\n", len(results))
	return printJSON(results)
}

func runSearchBirths(cmd *cobra.Command, args []string) error {
	filter, err := parseFilter(args[0])
	if err != nil {
		return err
	}

	results, err := svc.SearchBirths(cmd.Context(), filter, listLimit)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "%d record(s)\n", len(results))
	return printJSON(results)
}

func runUpdateBirth(cmd *cobra.Command, args []string) error {
	var update records.BirthUpdate
	regno, err := decodeUpdatePayload(args, &update)
	if err != nil {
		return err
	}

	matched, err := svc.UpdateBirth(cmd.Context(), regno, update)
	if err != nil {
		return err
	}

	fmt.Printf("Updated %d record(s)\n", matched)
	return nil
}

func runDeleteBirth(cmd *cobra.Command, args []string) error {
	deleted, err := svc.DeleteBirth(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Deleted %d record(s)\n", deleted)
	return nil
}

// # Shared Helpers

// printJSON renders command results as indented JSON on stdout.
func printJSON(payload any) error {
	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// parseFilter decodes a raw JSON object into a store filter.
func parseFilter(raw string) (records.Filter, error) {
	filter := records.Filter{}
	if err := json.Unmarshal([]byte(raw), &filter); err != nil {
		return nil, fmt.Errorf("filter is not a valid JSON object: %w", err)
	}
	return filter, nil
}

// decodeUpdatePayload splits an update invocation into the registration
// number and the JSON tail. The registration number is the leading
// whitespace-delimited token; arguments are first rejoined so it makes no
// difference whether the shell delivered one quoted string or many tokens.
func decodeUpdatePayload(args []string, v any) (regno string, err error) {
	joined := strings.TrimSpace(strings.Join(args, " "))

	regno, tail, found := strings.Cut(joined, " ")
	if !found || strings.TrimSpace(tail) == "" {
		return "", fmt.Errorf("expected a registration number followed by a JSON payload")
	}

	if err := json.Unmarshal([]byte(tail), v); err != nil {
		return "", fmt.Errorf("payload is not valid JSON: %w", err)
	}
	return regno, nil
}
