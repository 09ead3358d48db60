package database

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/joho/godotenv/autoload"
	_ "github.com/mattn/go-sqlite3"
)

// Service stores finished match results. The driver is chosen by the
// DB_DRIVER env var: "sqlite3" (default, DSN ./cardmasters.db) or "pgx"
// with DB_DSN pointing at a postgres instance.
type Service struct {
	db         *sql.DB
	m          *sync.Mutex
	driver     string
	table_name string
}

var (
	tableName  = "match_results"
	dbInstance *Service
)

func New() Service {
	driver := os.Getenv("DB_DRIVER")
	if driver == "" {
		driver = "sqlite3"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "./cardmasters.db"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		panic(err)
	}

	sqlStmt := `
	create table if not exists match_results (
		id text not null primary key,
		created_at text,
		room_code text,
		player1 text,
		player2 text,
		player3 text,
		player4 text,
		player1_score integer,
		player2_score integer,
		player3_score integer,
		player4_score integer,
		winner text,
		target_score integer
	);
	`
	_, err = db.Exec(sqlStmt)
	if err != nil {
		panic(err)
	}

	dbInstance = &Service{
		db:         db,
		driver:     driver,
		table_name: tableName,
		m:          &sync.Mutex{},
	}

	return *dbInstance
}

func (s *Service) Close() error {
	return s.db.Close()
}

func (s *Service) TableName() string {
	return s.table_name
}

// rebind rewrites ? placeholders to $n for the pgx driver.
func (s *Service) rebind(query string) string {
	if s.driver != "pgx" {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteString(fmt.Sprintf("$%d", n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func scanResult(rows interface{ Scan(...any) error }, result *MatchResult) error {
	return rows.Scan(
		&result.ID,
		&result.CreatedAt,
		&result.RoomCode,
		&result.Player1,
		&result.Player2,
		&result.Player3,
		&result.Player4,
		&result.Player1Score,
		&result.Player2Score,
		&result.Player3Score,
		&result.Player4Score,
		&result.Winner,
		&result.TargetScore)
}

func (s *Service) GetAll() ([]MatchResult, error) {
	s.m.Lock()
	defer s.m.Unlock()
	rows, err := s.db.Query("SELECT * FROM " + s.table_name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []MatchResult
	for rows.Next() {
		var result MatchResult
		if err := scanResult(rows, &result); err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	return results, rows.Err()
}

func (s *Service) GetByID(id string) (MatchResult, error) {
	s.m.Lock()
	defer s.m.Unlock()
	var result MatchResult
	row := s.db.QueryRow(s.rebind("SELECT * FROM "+s.table_name+" WHERE id = ?"), id)
	if err := scanResult(row, &result); err != nil {
		return MatchResult{}, err
	}
	return result, nil
}

func (s *Service) Insert(result MatchResult) error {
	s.m.Lock()
	defer s.m.Unlock()
	_, err := s.db.Exec(s.rebind("INSERT INTO "+s.table_name+
		" (id, created_at, room_code, player1, player2, player3, player4,"+
		" player1_score, player2_score, player3_score, player4_score, winner, target_score)"+
		" VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"),
		result.ID,
		result.CreatedAt,
		result.RoomCode,
		result.Player1,
		result.Player2,
		result.Player3,
		result.Player4,
		result.Player1Score,
		result.Player2Score,
		result.Player3Score,
		result.Player4Score,
		result.Winner,
		result.TargetScore)

	return err
}

func (s *Service) GetByPlayer(player_name string) ([]MatchResult, error) {
	s.m.Lock()
	defer s.m.Unlock()
	rows, err := s.db.Query(s.rebind("SELECT * FROM "+s.table_name+
		" WHERE player1 = ? OR player2 = ? OR player3 = ? OR player4 = ?"),
		player_name,
		player_name,
		player_name,
		player_name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []MatchResult
	for rows.Next() {
		var result MatchResult
		if err := scanResult(rows, &result); err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	if len(results) == 0 {
		return nil, sql.ErrNoRows
	}

	return results, nil
}
