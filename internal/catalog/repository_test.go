package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrationSourceURL(t *testing.T) {
	cases := []struct {
		name string
		path string
		want string
	}{
		{"bare directory", "migrations", "file://migrations"},
		{"absolute directory", "/srv/storefront/migrations", "file:///srv/storefront/migrations"},
		{"already a file URL", "file://migrations", "file://migrations"},
		{"other scheme untouched", "github://owner/repo/migrations", "github://owner/repo/migrations"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, migrationSourceURL(tc.path))
		})
	}
}
