/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

import "fmt"

// Category is a themed word list. Categories are shared by every room and
// must not be modified after the catalog is built.
type Category struct {
	Name  string   `json:"name"`
	Image string   `json:"image"`
	Words []string `json:"-"`
}

// Catalog is the fixed set of categories rounds are drawn from.
type Catalog struct {
	categories []*Category
	random     Random
}

// NewCatalog validates categories and returns a catalog drawing from them
// with r. An empty catalog, or a category without words, is rejected.
func NewCatalog(r Random, categories ...Category) (*Catalog, error) {
	if len(categories) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		categories: make([]*Category, 0, len(categories)),
		random:     r,
	}

	for _, category := range categories {
		if len(category.Words) == 0 {
			return nil, fmt.Errorf("%q: %w", category.Name, ErrEmptyCategory)
		}

		words := make([]string, len(category.Words))
		copy(words, category.Words)
		category.Words = words

		c.categories = append(c.categories, &category)
	}

	return c, nil
}

// NewDefaultCatalog returns the built-in Spanish catalog.
func NewDefaultCatalog(r Random) *Catalog {
	c, err := NewCatalog(r, DefaultCategories()...)
	if err != nil {
		panic(err)
	}

	return c
}

// PickRandom returns a uniformly chosen category.
func (c *Catalog) PickRandom() *Category {
	return c.categories[c.random.Intn(len(c.categories))]
}

// Len returns the number of categories.
func (c *Catalog) Len() int {
	return len(c.categories)
}

func DefaultCategories() []Category {
	return []Category{
		{
			Name:  "Oficina",
			Image: "images/oficina.svg",
			Words: []string{"mesa", "silla", "lapiz", "libro", "taza", "reloj", "puerta", "ventana", "caja", "bolsa"},
		},
		{
			Name:  "Trabajo",
			Image: "images/proyecto.svg",
			Words: []string{"correo", "tarea", "nota", "agenda", "equipo", "reunion", "oficina", "telefono", "pantalla", "archivo"},
		},
		{
			Name:  "Fiesta",
			Image: "images/convivio.svg",
			Words: []string{"pizza", "pastel", "globo", "musica", "regalo", "vela", "risa", "baile", "foto", "juego"},
		},
	}
}
