package router

import (
	"reflect"
	"testing"
)

func TestEncodeComponent(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"abc", "abc"},
		{"a b", "a%20b"},
		{"a+b", "a%2Bb"},
		{"/contracts/1", "%2Fcontracts%2F1"},
		{"it's (ok)!*~", "it's%20(ok)!*~"},
		{"✓", "%E2%9C%93"},
		{"a&b=c", "a%26b%3Dc"},
	}
	for _, tt := range tests {
		if got := EncodeComponent(tt.in); got != tt.want {
			t.Errorf("EncodeComponent(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseQuery(t *testing.T) {
	tests := []struct {
		raw  string
		want Query
	}{
		{"", Query{}},
		{"?", Query{}},
		{"a=1", Query{"a": "1"}},
		{"?a=1&b=2", Query{"a": "1", "b": "2"}},
		{"flag", Query{"flag": ""}},
		{"a=x%20y", Query{"a": "x y"}},
		{"a=x+y", Query{"a": "x+y"}},
		{"a=1&a=2", Query{"a": "2"}},
		{"eq=a=b", Query{"eq": "a=b"}},
		{"bad=%E0%A4%A", Query{"bad": "%E0%A4%A"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := ParseQuery(tt.raw); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseQuery(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestQueryRoundTrip(t *testing.T) {
	q := Query{"redirect": "/contracts/3?tab=parties", "name": "Jane Doe & Co"}
	if got := ParseQuery(EncodeQuery(q)); !reflect.DeepEqual(got, q) {
		t.Errorf("round trip = %v, want %v", got, q)
	}
}

func TestBuildAndSplitFragment(t *testing.T) {
	if got := BuildFragment("/login", nil); got != "/login" {
		t.Errorf("BuildFragment without query = %q", got)
	}
	if got := BuildFragment("/login", Query{"redirect": "/"}); got != "/login?redirect=%2F" {
		t.Errorf("BuildFragment = %q", got)
	}

	tests := []struct {
		fragment, path, query string
	}{
		{"", "/", ""},
		{"#", "/", ""},
		{"#/contracts?status=draft", "/contracts", "status=draft"},
		{"/a?b?c", "/a", "b?c"},
	}
	for _, tt := range tests {
		path, query := SplitFragment(tt.fragment)
		if path != tt.path || query != tt.query {
			t.Errorf("SplitFragment(%q) = %q, %q; want %q, %q", tt.fragment, path, query, tt.path, tt.query)
		}
	}
}
