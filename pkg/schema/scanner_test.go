package schema

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shrewx/crudx/pkg/conf"
	"github.com/shrewx/crudx/pkg/dbhelper"
	"github.com/shrewx/crudx/pkg/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) (*dbhelper.DB, conf.DB) {
	cfg := conf.DB{Type: conf.Sqlite, DBName: filepath.Join(t.TempDir(), "app.db")}
	db, err := dbhelper.NewDB(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	for _, ddl := range []string{
		"CREATE TABLE accounts (id BIGINT PRIMARY KEY, owner TEXT)",
		"CREATE TABLE audit_log (message TEXT)",
		"CREATE TABLE order_items (id INTEGER PRIMARY KEY, name TEXT)",
		"CREATE TABLE users (id VARCHAR(36) PRIMARY KEY, email TEXT)",
	} {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db, cfg
}

func TestScanner_Entities(t *testing.T) {
	db, _ := openTestDB(t)

	entities, err := NewScanner(db.DB).Entities(context.Background(), "com.acme.domain")
	require.NoError(t, err)

	assert.Equal(t, []entity.Entity{
		{Name: "Account", Package: "com.acme.domain", PrimaryKeyType: "Long"},
		{Name: "OrderItem", Package: "com.acme.domain", PrimaryKeyType: "Integer"},
		{Name: "User", Package: "com.acme.domain", PrimaryKeyType: "String"},
	}, entities)
}

func TestScanner_Filters(t *testing.T) {
	db, _ := openTestDB(t)

	entities, err := NewScanner(db.DB, WithInclude("*s"), WithExclude("users")).Entities(context.Background(), "p")
	require.NoError(t, err)

	var names []string
	for _, e := range entities {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"Account", "OrderItem"}, names)
}

func TestScan(t *testing.T) {
	_, cfg := openTestDB(t)

	entities, err := Scan(context.Background(), conf.Schema{DB: cfg, Package: "com.acme", Include: []string{"accounts"}}, "")
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, "com.acme.Account", entities[0].QualifiedName())

	entities, err = Scan(context.Background(), conf.Schema{}, "")
	require.NoError(t, err)
	assert.Nil(t, entities)
}

func TestClassName(t *testing.T) {
	assert.Equal(t, "OrderItem", ClassName("order_items"))
	assert.Equal(t, "Person", ClassName("people"))
	assert.Equal(t, "Category", ClassName("Categories"))
}

func TestJavaType(t *testing.T) {
	cases := map[string]string{
		"BIGINT":            "Long",
		"bigint unsigned":   "Long",
		"int(11)":           "Integer",
		"VARCHAR(36)":       "String",
		"uuid":              "java.util.UUID",
		"character varying": "String",
		"numeric(10,2)":     "Fallback",
	}
	for sqlType, want := range cases {
		assert.Equal(t, want, JavaType(sqlType, "Fallback"), sqlType)
	}
}
