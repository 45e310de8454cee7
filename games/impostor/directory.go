/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

import (
	"sync"
)

// Directory holds every live room keyed by code. Its lock guards only the
// map; each room carries its own lock for game state.
type Directory struct {
	mu      sync.RWMutex
	rooms   map[Code]*Room
	catalog *Catalog
	random  Random
}

func NewDirectory(catalog *Catalog, r Random) *Directory {
	return &Directory{
		rooms:   make(map[Code]*Room),
		catalog: catalog,
		random:  r,
	}
}

// Create opens a new lobby under a freshly generated code. Drawing the code
// and inserting the room happen under one write lock, so concurrent
// creations cannot claim the same code.
func (d *Directory) Create() (Code, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	code, err := generateCode(d.random, func(c Code) bool {
		_, ok := d.rooms[c]
		return ok
	})
	if err != nil {
		return "", err
	}

	d.rooms[code] = newRoom(code, d.catalog, d.random)

	return code, nil
}

// Room looks up a room by code; the code is normalised first.
func (d *Directory) Room(code Code) (*Room, error) {
	code = NormalizeCode(string(code))

	d.mu.RLock()
	room, ok := d.rooms[code]
	d.mu.RUnlock()

	if !ok {
		return nil, ErrRoomNotFound
	}

	return room, nil
}

// Len returns the number of live rooms.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.rooms)
}

func (d *Directory) Join(code Code, candidate Token, name string) (Player, error) {
	room, err := d.Room(code)
	if err != nil {
		return Player{}, err
	}

	return room.Join(candidate, name)
}

func (d *Directory) Start(code Code, caller Token) error {
	room, err := d.Room(code)
	if err != nil {
		return err
	}

	return room.Start(caller)
}

func (d *Directory) Submit(code Code, caller Token, word string) (bool, error) {
	room, err := d.Room(code)
	if err != nil {
		return false, err
	}

	return room.Submit(caller, word)
}

func (d *Directory) Vote(code Code, voter Token, targetID PlayerID) (bool, error) {
	room, err := d.Room(code)
	if err != nil {
		return false, err
	}

	return room.Vote(voter, targetID)
}

func (d *Directory) Reset(code Code) error {
	room, err := d.Room(code)
	if err != nil {
		return err
	}

	room.Reset()

	return nil
}

func (d *Directory) Snapshot(code Code) (Snapshot, error) {
	room, err := d.Room(code)
	if err != nil {
		return Snapshot{}, err
	}

	return room.Snapshot(), nil
}

func (d *Directory) View(code Code, token Token) (View, error) {
	room, err := d.Room(code)
	if err != nil {
		return View{}, err
	}

	return room.View(token), nil
}
