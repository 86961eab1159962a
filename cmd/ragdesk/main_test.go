package main

import "testing"

func TestRootCommandDefaults(t *testing.T) {
	flags := newRootCmd().Flags()
	tests := map[string]string{
		"markdown":      "false",
		"no-alt-screen": "false",
		"username":      "admin@example.com",
		"log-level":     "info",
	}
	for name, want := range tests {
		flag := flags.Lookup(name)
		if flag == nil {
			t.Fatalf("flag --%s not registered", name)
		}
		if flag.DefValue != want {
			t.Fatalf("--%s default = %q, want %q", name, flag.DefValue, want)
		}
	}
}

func TestMarkdownStyleDisabledByDefault(t *testing.T) {
	if got := markdownStyle(false); got != "" {
		t.Fatalf("markdownStyle(false) = %q, want empty", got)
	}
}
