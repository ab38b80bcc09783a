// Package dummydb is an in-memory store for data that does not outlive the process.
package dummydb

import (
	"sync"

	"github.com/trezcool/pensum/core/quiz"
)

type (
	DB struct {
		session *sessionTable
	}

	sessionTable struct {
		sync.RWMutex
		table map[string]*quiz.Session
	}
)

func Open() *DB {
	return &DB{
		session: &sessionTable{table: make(map[string]*quiz.Session)},
	}
}
