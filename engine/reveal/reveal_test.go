package reveal

import "testing"

func TestTick_PacesByRate(t *testing.T) {
	r := New("hello", 10) // 0.1s per character

	if got := r.Tick(0.05); got != "" {
		t.Errorf("after 0.05s: got %q, want empty", got)
	}
	if got := r.Tick(0.05); got != "h" {
		t.Errorf("after 0.10s: got %q, want \"h\"", got)
	}
	if got := r.Tick(0.3); got != "hell" {
		t.Errorf("after 0.40s: got %q, want \"hell\"", got)
	}
	if got := r.Tick(10); got != "hello" {
		t.Errorf("after long tick: got %q, want full text", got)
	}
	if r.Active() {
		t.Error("revealer still active after full reveal")
	}
}

func TestSkip_MidReveal(t *testing.T) {
	text := "twenty characters ok" // 20 chars
	r := New(text, 10)
	r.Tick(0.5) // 5 characters shown

	if got := r.Skip(); got != text {
		t.Errorf("Skip() = %q, want %q", got, text)
	}
	if r.Active() {
		t.Error("active after skip")
	}
}

func TestEmptyText(t *testing.T) {
	r := New("", 10)
	if r.Active() {
		t.Error("empty text should complete trivially")
	}
	if got := r.Tick(1); got != "" {
		t.Errorf("Tick on empty = %q", got)
	}
}

func TestNonPositiveRate_RevealsInstantly(t *testing.T) {
	r := New("abc", 0)
	if got := r.Tick(0.001); got != "abc" {
		t.Errorf("got %q, want full text on first tick", got)
	}
}

func TestOnChar_FiresOncePerCharacter(t *testing.T) {
	r := New("abc", 10)
	var seen []rune
	r.SetOnChar(func(c rune) { seen = append(seen, c) })

	r.Tick(0.2) // two characters
	r.Skip()

	if string(seen) != "abc" {
		t.Errorf("hook saw %q, want \"abc\"", string(seen))
	}
}

func TestRestart(t *testing.T) {
	r := New("ab", 10)
	r.Skip()
	r.Restart()

	if !r.Active() {
		t.Error("not active after restart")
	}
	if got := r.Visible(); got != "" {
		t.Errorf("visible after restart = %q", got)
	}
	if got := r.Tick(0.1); got != "a" {
		t.Errorf("first tick after restart = %q, want \"a\"", got)
	}
}

func TestUnicodeText(t *testing.T) {
	r := New("héllo", 10)
	if got := r.Tick(0.2); got != "hé" {
		t.Errorf("got %q, want \"hé\"", got)
	}
}
