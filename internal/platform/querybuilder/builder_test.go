package querybuilder

import (
	"reflect"
	"testing"
)

func TestSelect(t *testing.T) {
	t.Parallel()

	query, args, err := Select("player_id", "points").
		From("player_scores").
		Where(Eq("gameweek", 3), In("player_id", []string{"p1", "p2"}), IsNull("deleted_at")).
		OrderBy("fixture_id", "player_id").
		Limit(50).
		ToSQL()
	if err != nil {
		t.Fatalf("build select: %v", err)
	}

	want := "SELECT player_id, points FROM player_scores WHERE gameweek = $1 AND player_id IN ($2, $3) AND deleted_at IS NULL ORDER BY fixture_id, player_id LIMIT 50"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if !reflect.DeepEqual(args, []any{3, "p1", "p2"}) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectEmptyIn(t *testing.T) {
	t.Parallel()

	query, args, err := Select("id").From("players").Where(In[string]("id", nil)).ToSQL()
	if err != nil {
		t.Fatalf("build select: %v", err)
	}
	if query != "SELECT id FROM players WHERE FALSE" || len(args) != 0 {
		t.Fatalf("unexpected query=%q args=%v", query, args)
	}
}

func TestUpsertModel(t *testing.T) {
	t.Parallel()

	type row struct {
		ManagerID string `db:"manager_id"`
		Gameweek  int    `db:"gameweek"`
		Points    int    `db:"total_points"`
		internal  string
		Skipped   string `db:"-"`
	}

	query, args, err := UpsertModel("manager_points", row{ManagerID: "mgr-1", Gameweek: 2, Points: 61}, "manager_id", "gameweek")
	if err != nil {
		t.Fatalf("build upsert: %v", err)
	}

	want := "INSERT INTO manager_points (manager_id, gameweek, total_points) VALUES ($1, $2, $3) ON CONFLICT (manager_id, gameweek) DO UPDATE SET total_points = EXCLUDED.total_points"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if !reflect.DeepEqual(args, []any{"mgr-1", 2, 61}) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModels(t *testing.T) {
	t.Parallel()

	type row struct {
		ID   string `db:"id"`
		Club string `db:"club"`
	}

	query, args, err := InsertModels("players", []row{{ID: "p1", Club: "PSM"}, {ID: "p2", Club: "PSS"}})
	if err != nil {
		t.Fatalf("build insert: %v", err)
	}
	want := "INSERT INTO players (id, club) VALUES ($1, $2), ($3, $4)"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if len(args) != 4 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteRequiresCondition(t *testing.T) {
	t.Parallel()

	if _, _, err := DeleteFrom("player_scores").ToSQL(); err == nil {
		t.Fatalf("expected unconditional delete to fail")
	}

	query, args, err := DeleteFrom("player_scores").Where(Eq("fixture_id", "fx-1")).ToSQL()
	if err != nil {
		t.Fatalf("build delete: %v", err)
	}
	if query != "DELETE FROM player_scores WHERE fixture_id = $1" || len(args) != 1 {
		t.Fatalf("unexpected query=%q args=%v", query, args)
	}
}
