package proxy

import (
	"strings"
	"testing"

	"github.com/agildata/zeroproxy/cache"
	"github.com/agildata/zeroproxy/conf"
	"github.com/agildata/zeroproxy/encrypt"
	"github.com/agildata/zeroproxy/planner"
)

func testCfg(mode string) *conf.Cfg {
	return &conf.Cfg{
		Connection: conf.ConnectionConfig{DB: "zero"},
		Parsing:    conf.ParsingConfig{Mode: mode},
	}
}

func testKey(t *testing.T) encrypt.Key {
	t.Helper()
	key, err := encrypt.ParseKey("6162636465666768696a6b6c6d6e6f707172737475767778797a303132333435")
	if err != nil {
		t.Fatalf("ParseKey: %v", err)
	}
	return key
}

func testProvider(t *testing.T) *planner.StaticProvider {
	p := planner.NewStaticProvider()
	p.Add(&planner.TableMeta{
		Schema: "zero", Table: "users",
		Columns: []planner.ColumnMeta{
			{Name: "id", NativeType: encrypt.TI64},
			{Name: "ssn", NativeType: encrypt.TVarchar, Encryption: encrypt.AES, Key: testKey(t)},
		},
	})
	return p
}

func TestRewriteEncryptsLiteralEquality(t *testing.T) {
	rw := NewRewriter(testCfg("strict"), testProvider(t), cache.New())

	result, err := rw.Rewrite("zero", "SELECT id FROM users WHERE ssn = '123-45-6789'")
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	if strings.Contains(result.SQL, "123-45-6789") {
		t.Fatalf("expected literal to be encrypted, got %q", result.SQL)
	}
	if !strings.Contains(result.SQL, "X'") {
		t.Fatalf("expected hex literal in rewritten SQL, got %q", result.SQL)
	}
}

func TestRewriteReusesCachedPlanAcrossLiterals(t *testing.T) {
	c := cache.New()
	rw := NewRewriter(testCfg("strict"), testProvider(t), c)

	if _, err := rw.Rewrite("zero", "SELECT id FROM users WHERE ssn = '111-11-1111'"); err != nil {
		t.Fatalf("first Rewrite: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 cached plan, got %d", c.Len())
	}

	result, err := rw.Rewrite("zero", "SELECT id FROM users WHERE ssn = '222-22-2222'")
	if err != nil {
		t.Fatalf("second Rewrite: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("expected cache to be reused, got %d entries", c.Len())
	}
	if strings.Contains(result.SQL, "222-22-2222") {
		t.Fatalf("expected second literal to be encrypted too, got %q", result.SQL)
	}
}

func TestRewritePermissiveModeForwardsUnparseable(t *testing.T) {
	rw := NewRewriter(testCfg("permissive"), testProvider(t), cache.New())

	const bogus = "THIS IS NOT SQL ;;; %%%"
	result, err := rw.Rewrite("zero", bogus)
	if err != nil {
		t.Fatalf("expected permissive mode to forward unparseable SQL, got error: %v", err)
	}
	if result.SQL != bogus {
		t.Fatalf("expected passthrough, got %q", result.SQL)
	}
}

func TestRewriteStrictModeForwardsWhitelistedKinds(t *testing.T) {
	rw := NewRewriter(testCfg("strict"), testProvider(t), cache.New())

	result, err := rw.Rewrite("zero", "SET autocommit = 1")
	if err != nil {
		t.Fatalf("expected SET to be forwarded in strict mode, got error: %v", err)
	}
	if result.SQL != "SET autocommit = 1" {
		t.Fatalf("expected verbatim passthrough, got %q", result.SQL)
	}
}

func TestRewriteStrictModeRejectsOtherUnparseable(t *testing.T) {
	rw := NewRewriter(testCfg("strict"), testProvider(t), cache.New())

	if _, err := rw.Rewrite("zero", "GARBLE $$$ NOT SQL"); err == nil {
		t.Fatal("expected an error for unparseable non-whitelisted statement in strict mode")
	}
}
