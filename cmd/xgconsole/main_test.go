package main

import (
	"reflect"
	"testing"
)

func TestParseArgs(t *testing.T) {
	opts := parseArgs([]string{"/no_logo", "/title=MyBuild", "a.xge.xml", "b.xge.xml"})
	if !opts.noLogo {
		t.Errorf("expected noLogo true")
	}
	if opts.title != "MyBuild" {
		t.Errorf("title = %q, want MyBuild", opts.title)
	}
	if !opts.stopOnErrors {
		t.Errorf("expected stopOnErrors default true")
	}
	if !reflect.DeepEqual(opts.graphFiles, []string{"a.xge.xml", "b.xge.xml"}) {
		t.Errorf("graphFiles = %v", opts.graphFiles)
	}
}

func TestParseArgs_Reset(t *testing.T) {
	opts := parseArgs([]string{"/reset"})
	if !opts.reset {
		t.Errorf("expected reset true")
	}
}

func TestParseArgs_StopOnErrorsDisabled(t *testing.T) {
	opts := parseArgs([]string{"/stopOnErrors-"})
	if opts.stopOnErrors {
		t.Errorf("expected stopOnErrors false when explicitly disabled")
	}
}

func TestParseArgs_Profile(t *testing.T) {
	if opts := parseArgs([]string{"/profile"}); opts.profile != "cpu" {
		t.Errorf("profile = %q, want cpu", opts.profile)
	}
	if opts := parseArgs([]string{"/profile=mem"}); opts.profile != "mem" {
		t.Errorf("profile = %q, want mem", opts.profile)
	}
	if opts := parseArgs([]string{"a.xge.xml"}); opts.profile != "" {
		t.Errorf("profile = %q, want empty when flag absent", opts.profile)
	}
}

func TestExpandGraphFiles_NoMatchKeepsPathAsIs(t *testing.T) {
	got := expandGraphFiles([]string{"missing.xge.xml"})
	if !reflect.DeepEqual(got, []string{"missing.xge.xml"}) {
		t.Errorf("expandGraphFiles() = %v, want [missing.xge.xml]", got)
	}
}
