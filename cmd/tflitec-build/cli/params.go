// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// FlagsFromParams returns a flag set bound to the tagged fields of
// params, a pointer to a struct. A malformed params struct is a bug in
// the command definition, so it panics.
//
//	var params buildParams
//	command := &cli.Command{
//	    Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("build", &params) },
//	}
func FlagsFromParams(name string, params any) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	if err := BindFlags(params, flagSet); err != nil {
		panic(fmt.Sprintf("cli: flags for %q: %v", name, err))
	}
	return flagSet
}

// BindFlags adds one flag to flagSet per field of params carrying a
// flag tag. The tag is the long name, optionally followed by a comma
// and a one-letter shorthand. desc gives the usage text and default the
// initial value in the field's own syntax. Fields of embedded structs
// are bound as if declared in params.
//
// Field types: string, bool, int, time.Duration, []string.
func BindFlags(params any, flagSet *pflag.FlagSet) error {
	pointer := reflect.ValueOf(params)
	if pointer.Kind() != reflect.Pointer || pointer.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("params must point to a struct, got %T", params)
	}
	return bindFields(pointer.Elem(), flagSet)
}

func bindFields(value reflect.Value, flagSet *pflag.FlagSet) error {
	for _, field := range reflect.VisibleFields(value.Type()) {
		if len(field.Index) != 1 {
			continue
		}
		target := value.FieldByIndex(field.Index)
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			if err := bindFields(target, flagSet); err != nil {
				return fmt.Errorf("%s: %w", field.Name, err)
			}
			continue
		}
		tag, ok := field.Tag.Lookup("flag")
		if !ok || tag == "" {
			continue
		}
		spec := flagSpec{
			usage:    field.Tag.Get("desc"),
			fallback: field.Tag.Get("default"),
		}
		spec.name, spec.short, _ = strings.Cut(tag, ",")
		if err := spec.bind(target.Addr().Interface(), flagSet); err != nil {
			return fmt.Errorf("%s: %w", field.Name, err)
		}
	}
	return nil
}

type flagSpec struct {
	name, short string
	usage       string
	fallback    string
}

func (s flagSpec) bind(target any, flagSet *pflag.FlagSet) error {
	switch p := target.(type) {
	case *string:
		flagSet.StringVarP(p, s.name, s.short, s.fallback, s.usage)
	case *bool:
		initial, err := parseDefault(s, strconv.ParseBool)
		if err != nil {
			return err
		}
		flagSet.BoolVarP(p, s.name, s.short, initial, s.usage)
	case *int:
		initial, err := parseDefault(s, strconv.Atoi)
		if err != nil {
			return err
		}
		flagSet.IntVarP(p, s.name, s.short, initial, s.usage)
	case *time.Duration:
		initial, err := parseDefault(s, time.ParseDuration)
		if err != nil {
			return err
		}
		flagSet.DurationVarP(p, s.name, s.short, initial, s.usage)
	case *[]string:
		var initial []string
		if s.fallback != "" {
			initial = strings.Split(s.fallback, ",")
		}
		flagSet.StringSliceVarP(p, s.name, s.short, initial, s.usage)
	default:
		return fmt.Errorf("--%s: unsupported type %T", s.name, target)
	}
	return nil
}

func parseDefault[T any](s flagSpec, parse func(string) (T, error)) (T, error) {
	var zero T
	if s.fallback == "" {
		return zero, nil
	}
	value, err := parse(s.fallback)
	if err != nil {
		return zero, fmt.Errorf("--%s default %q: %w", s.name, s.fallback, err)
	}
	return value, nil
}
