package json

import "testing"

func TestMarshalKeepsHTMLCharacters(t *testing.T) {
	got := MarshalString(map[string]string{"description": "Greet <someone> & co."})
	if got != `{"description":"Greet <someone> & co."}` {
		t.Fatalf("unexpected encoding %s", got)
	}
}

func TestMarshalSortsMapKeys(t *testing.T) {
	got := MarshalString(map[string]int{"b": 2, "a": 1})
	if got != `{"a":1,"b":2}` {
		t.Fatalf("unexpected encoding %s", got)
	}
}
