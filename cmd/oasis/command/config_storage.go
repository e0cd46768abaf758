package command

import (
	"fmt"
	"os"

	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/modes"
	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/storage"
	"github.com/pixil98/go-errors"
)

type StorageConfig struct {
	Arenas     AssetConfig[*modes.Arena]        `json:"arenas"`
	WeaponSets AssetConfig[*modes.WeaponSet]    `json:"weapon_sets"`
	Players    AssetConfig[*modes.PlayerRecord] `json:"players"`
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()
	el.Add(c.Arenas.Validate("arenas"))
	el.Add(c.WeaponSets.Validate("weapon_sets"))
	el.Add(c.Players.Validate("players"))
	return el.Err()
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}
