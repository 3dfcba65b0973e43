package database

import "testing"

func TestRebind(t *testing.T) {
	tests := []struct {
		name   string
		driver string
		in     string
		want   string
	}{
		{
			name:   "mysql passthrough",
			driver: "mysql",
			in:     "SELECT * FROM users WHERE id = ? AND tenant_id = ?",
			want:   "SELECT * FROM users WHERE id = ? AND tenant_id = ?",
		},
		{
			name:   "postgres numbering",
			driver: "postgres",
			in:     "SELECT * FROM users WHERE id = ? AND tenant_id = ?",
			want:   "SELECT * FROM users WHERE id = $1 AND tenant_id = $2",
		},
		{
			name:   "postgres no placeholders",
			driver: "postgres",
			in:     "SELECT COUNT(*) FROM departments",
			want:   "SELECT COUNT(*) FROM departments",
		},
		{
			name:   "postgres many placeholders",
			driver: "postgres",
			in:     "INSERT INTO t (a, b, c) VALUES (?, ?, ?)",
			want:   "INSERT INTO t (a, b, c) VALUES ($1, $2, $3)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &SQLDB{Driver: tt.driver}
			if got := d.Rebind(tt.in); got != tt.want {
				t.Errorf("Rebind() = %q, want %q", got, tt.want)
			}
		})
	}
}
