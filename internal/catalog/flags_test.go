package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndLoadFlags(t *testing.T) {
	dir := makeTestDir(t, "one.mp3", "two.mp3", "three.mp3")

	cat, err := Scan(dir)
	if err != nil {
		t.Fatalf("Ошибка сканирования: %v", err)
	}

	// Помечаем первый трек избранным, второй пропускаемым
	cat.JumpTo(0)
	cat.ToggleFavorite()
	cat.JumpTo(1)
	cat.ToggleSkip()

	if err := cat.SaveFlags(); err != nil {
		t.Fatalf("Ошибка сохранения флагов: %v", err)
	}

	// Файл-сайдкар создан в каталоге с музыкой
	if _, err := os.Stat(filepath.Join(dir, FlagsFileName)); err != nil {
		t.Fatalf("Файл флагов не создан: %v", err)
	}

	// Повторное сканирование подхватывает сохраненные флаги
	reloaded, err := Scan(dir)
	if err != nil {
		t.Fatalf("Ошибка повторного сканирования: %v", err)
	}

	tracks := reloaded.Tracks()
	if !tracks[0].Favorite {
		t.Error("Флаг избранного первого трека не восстановлен")
	}
	if tracks[0].Skip {
		t.Error("Первый трек не должен быть помечен пропускаемым")
	}
	if !tracks[1].Skip {
		t.Error("Флаг пропуска второго трека не восстановлен")
	}
	if tracks[2].Favorite || tracks[2].Skip {
		t.Error("Третий трек не должен иметь флагов")
	}
}

func TestLoadFlagsMissingFile(t *testing.T) {
	dir := makeTestDir(t, "one.mp3")

	cat, err := Scan(dir)
	if err != nil {
		t.Fatalf("Ошибка сканирования: %v", err)
	}

	// Отсутствующий файл флагов не является ошибкой
	if err := cat.LoadFlags(); err != nil {
		t.Errorf("Неожиданная ошибка для отсутствующего файла флагов: %v", err)
	}
}

func TestLoadFlagsCorruptFile(t *testing.T) {
	dir := makeTestDir(t, "one.mp3")

	if err := os.WriteFile(filepath.Join(dir, FlagsFileName), []byte("tracks: [broken"), 0644); err != nil {
		t.Fatalf("Ошибка записи файла флагов: %v", err)
	}

	cat := New(dir, []Track{{Path: filepath.Join(dir, "one.mp3")}})
	if err := cat.LoadFlags(); err == nil {
		t.Error("Ожидалась ошибка разбора некорректного файла флагов")
	}
}

func TestSaveFlagsSkipsUnflaggedTracks(t *testing.T) {
	dir := makeTestDir(t, "one.mp3", "two.mp3")

	cat, err := Scan(dir)
	if err != nil {
		t.Fatalf("Ошибка сканирования: %v", err)
	}

	cat.ToggleFavorite()
	if err := cat.SaveFlags(); err != nil {
		t.Fatalf("Ошибка сохранения флагов: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, FlagsFileName))
	if err != nil {
		t.Fatalf("Ошибка чтения файла флагов: %v", err)
	}

	// В файле только трек с установленным флагом
	content := string(data)
	if !contains(content, "one.mp3") {
		t.Error("Ожидалась запись для one.mp3")
	}
	if contains(content, "two.mp3") {
		t.Error("Трек без флагов не должен попадать в файл")
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
