package pkg

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"
)

func TestResolveFromRootAnchorsRelativePaths(t *testing.T) {
	g := NewWithT(t)

	resolved := ResolveFromRoot("db/migrations")

	g.Expect(filepath.IsAbs(resolved)).To(BeTrue())
	g.Expect(resolved).To(Equal(filepath.Join(FindProjectRoot(), "db", "migrations")))

	_, err := os.Stat(filepath.Join(FindProjectRoot(), "go.mod"))
	g.Expect(err).ToNot(HaveOccurred())
}

func TestResolveFromRootKeepsAbsolutePaths(t *testing.T) {
	g := NewWithT(t)

	g.Expect(ResolveFromRoot("/var/lib/taskapp/migrations")).To(Equal("/var/lib/taskapp/migrations"))
}
