package main

import (
	"github.com/hazadus/ksound/internal/utils"
)

// expandPath раскрывает тильду в пути, при ошибке возвращает путь как есть
func expandPath(path string) string {
	expanded, err := utils.ExpandTilde(path)
	if err != nil {
		return path
	}
	return expanded
}
