package engine

import (
	"github.com/Orel-y/U-Schedule/internal/models"
)

// Catalog is an immutable-per-fetch snapshot of the course offerings,
// qualification mapping and lab assistants visible for one
// (batch, program, academic year, term) cell. It is owned by exactly one
// Engine instance and discarded when the filter selection changes.
type Catalog struct {
	offerings     map[string]*models.CourseOffering
	order         []string
	qualified     models.QualificationMap
	labAssistants map[string]models.LabAssistant
}

// NewCatalog copies the fetched directory data into a snapshot.
func NewCatalog(offerings []models.CourseOffering, qualified models.QualificationMap, labAssistants []models.LabAssistant) *Catalog {
	c := &Catalog{
		offerings:     make(map[string]*models.CourseOffering, len(offerings)),
		order:         make([]string, 0, len(offerings)),
		qualified:     qualified,
		labAssistants: make(map[string]models.LabAssistant, len(labAssistants)),
	}
	for i := range offerings {
		cp := offerings[i]
		c.offerings[cp.ID] = &cp
		c.order = append(c.order, cp.ID)
	}
	for _, la := range labAssistants {
		c.labAssistants[la.ID] = la
	}
	if c.qualified == nil {
		c.qualified = models.QualificationMap{}
	}
	return c
}

// Rebase returns a new catalog holding the given offerings while keeping
// this catalog's qualification mapping and lab assistant roster. Used when
// a saved draft supplies the course bundle.
func (c *Catalog) Rebase(offerings []models.CourseOffering) *Catalog {
	next := &Catalog{
		offerings:     make(map[string]*models.CourseOffering, len(offerings)),
		order:         make([]string, 0, len(offerings)),
		qualified:     c.qualified,
		labAssistants: c.labAssistants,
	}
	for i := range offerings {
		cp := offerings[i]
		next.offerings[cp.ID] = &cp
		next.order = append(next.order, cp.ID)
	}
	return next
}

// Course returns the mutable offering for the id.
func (c *Catalog) Course(id string) (*models.CourseOffering, bool) {
	course, ok := c.offerings[id]
	return course, ok
}

// Courses returns offering copies in catalog load order.
func (c *Catalog) Courses() []models.CourseOffering {
	out := make([]models.CourseOffering, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.offerings[id])
	}
	return out
}

// IsQualified reports whether the instructor is in the qualified list for
// the course code.
func (c *Catalog) IsQualified(courseCode, instructorID string) bool {
	return c.qualified.IsQualified(courseCode, instructorID)
}

// LabAssistant resolves a lab assistant by id.
func (c *Catalog) LabAssistant(id string) (models.LabAssistant, bool) {
	la, ok := c.labAssistants[id]
	return la, ok
}
