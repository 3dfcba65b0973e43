package config

import "testing"

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.DBDriver != "mysql" {
		t.Errorf("DBDriver = %q, want mysql", cfg.DBDriver)
	}
	if cfg.UploadPath != "./uploads" {
		t.Errorf("UploadPath = %q, want ./uploads", cfg.UploadPath)
	}
}

func TestLoadConfigReadsUploadPath(t *testing.T) {
	t.Setenv("UPLOAD_PATH", "/var/lib/assixx/files")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.UploadPath != "/var/lib/assixx/files" {
		t.Errorf("UploadPath = %q, want /var/lib/assixx/files", cfg.UploadPath)
	}
}
