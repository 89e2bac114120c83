// Package cachekey derives the content-addressed key under which a compile
// result is stored, from the canonicalized invocation plus the hash of its
// preprocessed input.
package cachekey

import (
	"golang.org/x/exp/slices"

	"github.com/octobuild/octobuild/argument"
	"github.com/octobuild/octobuild/internal/base"
)

var LogCacheKey = base.NewLogCategory("CacheKey")

// FormatVersion is folded into every key so a change to this package's
// canonicalization or field order invalidates every previously cached
// entry, rather than silently misinterpreting it.
const FormatVersion = int32(1)

// noPchSentinel fills the PCH hash field when an invocation consumes no
// precompiled header, so "no PCH" and "PCH that happens to hash to zero"
// can never collide.
var noPchSentinel = base.StringFingerprint("octobuild-no-pch")

// Key is the content address of one cacheable compile.
type Key base.Fingerprint

func (k Key) String() string { return base.Fingerprint(k).String() }

// Derive folds toolchain identity, the canonicalized argument list, the
// preprocessed-source hash, and the consumed PCH hash (or the sentinel)
// into a single fingerprint via base's seed-digester-then-stream-fields
// pattern, so the key construction itself can never diverge from how any
// other serialized fingerprint in this codebase is built.
func Derive(toolchainID string, args []argument.Arg, preprocessedHash base.Fingerprint, pchHash base.Fingerprint, hasPCH bool) (Key, error) {
	canon := Canonicalize(args)

	effectivePch := noPchSentinel
	if hasPCH {
		effectivePch = pchHash
	}

	fp, err := base.SerializeAnyFingerprint(func(ar base.Archive) error {
		version := FormatVersion
		ar.Int32(&version)

		id := toolchainID
		ar.String(&id)

		for i := range canon {
			text := canon[i].Text
			category := int32(canon[i].Category)
			ar.String(&text)
			ar.Int32(&category)
		}

		pre := preprocessedHash
		ar.Raw(pre[:])

		pch := effectivePch
		ar.Raw(pch[:])

		return ar.Error()
	}, base.Fingerprint{})
	if err != nil {
		return Key{}, err
	}

	return Key(fp), nil
}

// Canonicalize orders arguments so that two invocations differing only in
// the order of commutative flags (e.g. -Wall then -g vs -g then -Wall)
// still produce the same key. Include paths and defines (-I, -D, /I, /D)
// are marked OrderSensitive by the grammars, so reordering them does
// change the key. Args marked
// OrderSensitive stay exactly where they were; only the order-insensitive
// slots are re-filled, in sorted (category, then text) order, so their
// relative position to the untouched order-sensitive args never changes.
// CategoryDiscard args are dropped entirely -- they never reach the hash.
func Canonicalize(args []argument.Arg) []argument.Arg {
	kept := make([]argument.Arg, 0, len(args))
	for _, a := range args {
		if a.Category != argument.CategoryDiscard {
			kept = append(kept, a)
		}
	}

	insensitive := make([]argument.Arg, 0, len(kept))
	for _, a := range kept {
		if !a.OrderSensitive {
			insensitive = append(insensitive, a)
		}
	}
	slices.SortStableFunc(insensitive, func(a, b argument.Arg) int {
		if a.Category != b.Category {
			if a.Category < b.Category {
				return -1
			}
			return 1
		}
		switch {
		case a.Text < b.Text:
			return -1
		case a.Text > b.Text:
			return 1
		default:
			return 0
		}
	})

	result := make([]argument.Arg, len(kept))
	next := 0
	for i, a := range kept {
		if a.OrderSensitive {
			result[i] = a
		} else {
			result[i] = insensitive[next]
			next++
		}
	}

	return result
}
