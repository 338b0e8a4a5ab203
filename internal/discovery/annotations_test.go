package discovery

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeTestFile(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "BlogTest.php")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

func TestAnnotationParser_Parse(t *testing.T) {
	parser := NewAnnotationParser()

	path := writeTestFile(t, `<?php

namespace Tests\Integration;

/**
 * @dataFixture base_config.php
 * @dataFixture Acme_Blog::Fixtures/posts.php
 */
class BlogTest extends TestCase
{
    /**
     * @dataFixture products.php
     * @dataFixture seedCart
     */
    public function testCheckout()
    {
    }

    public function testListing($page)
    {
    }

    public function seedCart()
    {
    }

    public function seedCartRollback()
    {
    }
}
`)

	ann, err := parser.Parse(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("qualified class name", func(t *testing.T) {
		expected := `Tests\Integration\BlogTest`
		if ann.Class != expected {
			t.Errorf("expected class %q, got %q", expected, ann.Class)
		}
	})

	t.Run("class fixtures in declaration order", func(t *testing.T) {
		expected := []string{"base_config.php", "Acme_Blog::Fixtures/posts.php"}
		if !reflect.DeepEqual(ann.ClassFixtures, expected) {
			t.Errorf("expected %v, got %v", expected, ann.ClassFixtures)
		}
	})

	t.Run("method fixtures in declaration order", func(t *testing.T) {
		expected := []string{"products.php", "seedCart"}
		if !reflect.DeepEqual(ann.CaseFixtures("testCheckout"), expected) {
			t.Errorf("expected %v, got %v", expected, ann.CaseFixtures("testCheckout"))
		}
	})

	t.Run("no fixtures for undeclared method", func(t *testing.T) {
		if got := ann.CaseFixtures("testListing"); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})

	t.Run("zero-arg methods", func(t *testing.T) {
		for _, method := range []string{"testCheckout", "seedCart", "seedCartRollback"} {
			if !ann.ZeroArgMethods[method] {
				t.Errorf("expected %s to be a zero-arg method", method)
			}
		}
		if ann.ZeroArgMethods["testListing"] {
			t.Error("testListing takes arguments, should not be zero-arg")
		}
	})
}

func TestAnnotationParser_Parse_NoDocblocks(t *testing.T) {
	parser := NewAnnotationParser()

	path := writeTestFile(t, `<?php

namespace Tests\Unit;

class BlogTest extends TestCase
{
    public function testSomething()
    {
    }
}
`)

	ann, err := parser.Parse(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ann.Class != `Tests\Unit\BlogTest` {
		t.Errorf("expected class from bare declaration, got %q", ann.Class)
	}
	if len(ann.ClassFixtures) != 0 {
		t.Errorf("expected no class fixtures, got %v", ann.ClassFixtures)
	}
	if len(ann.MethodFixtures) != 0 {
		t.Errorf("expected no method fixtures, got %v", ann.MethodFixtures)
	}
}

func TestAnnotationParser_Parse_NoNamespace(t *testing.T) {
	parser := NewAnnotationParser()

	path := writeTestFile(t, `<?php

/**
 * @dataFixture setup.php
 */
class BlogTest extends TestCase
{
}
`)

	ann, err := parser.Parse(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ann.Class != "BlogTest" {
		t.Errorf("expected unqualified class name, got %q", ann.Class)
	}
	if !reflect.DeepEqual(ann.ClassFixtures, []string{"setup.php"}) {
		t.Errorf("expected [setup.php], got %v", ann.ClassFixtures)
	}
}
