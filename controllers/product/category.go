package productcontroller

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/junaidrashid-git/glowhub/app"
	"github.com/junaidrashid-git/glowhub/apperror"
	"github.com/junaidrashid-git/glowhub/middleware"
	"github.com/junaidrashid-git/glowhub/models"
)

type CategoryInput struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	ParentID    *uint   `json:"parent_id"`
}

// CategoryTree is an arena of categories keyed by id. Parents are referenced
// by id only.
type CategoryTree struct {
	nodes    map[uint]models.Category
	children map[uint][]uint
	roots    []uint
}

// NewCategoryTree indexes cats. A category whose parent is missing is a root.
func NewCategoryTree(cats []models.Category) *CategoryTree {
	t := &CategoryTree{
		nodes:    make(map[uint]models.Category, len(cats)),
		children: make(map[uint][]uint),
	}
	for _, c := range cats {
		t.nodes[c.ID] = c
	}
	for _, c := range cats {
		if c.ParentID != nil {
			if _, ok := t.nodes[*c.ParentID]; ok && *c.ParentID != c.ID {
				t.children[*c.ParentID] = append(t.children[*c.ParentID], c.ID)
				continue
			}
		}
		t.roots = append(t.roots, c.ID)
	}
	sort.Slice(t.roots, func(i, j int) bool { return t.roots[i] < t.roots[j] })
	for id := range t.children {
		ids := t.children[id]
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	}
	return t
}

func (t *CategoryTree) Get(id uint) (models.Category, bool) {
	c, ok := t.nodes[id]
	return c, ok
}

// Subtree returns id followed by all of its descendants, breadth first.
func (t *CategoryTree) Subtree(id uint) []uint {
	if _, ok := t.nodes[id]; !ok {
		return nil
	}
	seen := map[uint]bool{id: true}
	out := []uint{id}
	for i := 0; i < len(out); i++ {
		for _, child := range t.children[out[i]] {
			if !seen[child] {
				seen[child] = true
				out = append(out, child)
			}
		}
	}
	return out
}

// Path returns the names from the root down to id.
func (t *CategoryTree) Path(id uint) []string {
	var names []string
	seen := map[uint]bool{}
	for cur, ok := t.nodes[id]; ok && !seen[cur.ID]; {
		seen[cur.ID] = true
		names = append([]string{cur.Name}, names...)
		if cur.ParentID == nil {
			break
		}
		cur, ok = t.nodes[*cur.ParentID]
	}
	return names
}

type CategoryNode struct {
	ID          uint           `json:"id"`
	Name        string         `json:"name"`
	Description *string        `json:"description,omitempty"`
	Children    []CategoryNode `json:"children,omitempty"`
}

// Nested renders the tree for clients that want nesting.
func (t *CategoryTree) Nested() []CategoryNode {
	var build func(id uint, seen map[uint]bool) CategoryNode
	build = func(id uint, seen map[uint]bool) CategoryNode {
		seen[id] = true
		c := t.nodes[id]
		n := CategoryNode{ID: c.ID, Name: c.Name, Description: c.Description}
		for _, child := range t.children[id] {
			if !seen[child] {
				n.Children = append(n.Children, build(child, seen))
			}
		}
		return n
	}

	seen := map[uint]bool{}
	out := make([]CategoryNode, 0, len(t.roots))
	for _, id := range t.roots {
		out = append(out, build(id, seen))
	}
	return out
}

// LoadCategoryTree reads every category into a tree.
func LoadCategoryTree(db *gorm.DB) (*CategoryTree, error) {
	var cats []models.Category
	if err := db.Order("id").Find(&cats).Error; err != nil {
		return nil, apperror.FromStore("category", "", err)
	}
	return NewCategoryTree(cats), nil
}

func CreateCategory(ctx context.Context, env *app.Env, in CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperror.InvalidArgument("category name is required")
	}

	category := models.Category{Name: name, Description: in.Description, ParentID: in.ParentID}
	err := env.Conn(ctx).Transaction(func(tx *gorm.DB) error {
		if in.ParentID != nil {
			if err := tx.Select("id").First(&models.Category{}, *in.ParentID).Error; err != nil {
				return apperror.FromStore("category", apperror.Key(*in.ParentID), err)
			}
		}
		if err := tx.Omit(clause.Associations).Create(&category).Error; err != nil {
			return apperror.FromStore("category", name, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	env.Log.Info("category created", zap.Uint("category_id", category.ID), zap.String("name", name))
	return &category, nil
}

// DeleteCategory removes a category and detaches its children, which become
// roots. Categories that still hold products are kept; an unknown id is a no-op.
func DeleteCategory(ctx context.Context, env *app.Env, id uint) error {
	return env.Conn(ctx).Transaction(func(tx *gorm.DB) error {
		var cat models.Category
		if err := tx.First(&cat, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return apperror.FromStore("category", apperror.Key(id), err)
		}

		var products int64
		if err := tx.Model(&models.Product{}).Where("category_id = ?", id).Count(&products).Error; err != nil {
			return apperror.FromStore("product", apperror.Key(id), err)
		}
		if products > 0 {
			return apperror.ConstraintViolation("category", "fk_products_category", nil)
		}

		if err := tx.Model(&models.Category{}).Where("parent_id = ?", id).Update("parent_id", nil).Error; err != nil {
			return apperror.FromStore("category", apperror.Key(id), err)
		}
		if err := tx.Delete(&cat).Error; err != nil {
			return apperror.FromStore("category", apperror.Key(id), err)
		}
		env.Log.Info("category deleted", zap.Uint("category_id", id))
		return nil
	})
}

// POST /categories
func PostCategory(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CategoryInput
		if !middleware.Bind(c, &input) {
			return
		}
		category, err := CreateCategory(c.Request.Context(), env, input)
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

// GET /categories/tree
func GetCategoryTree(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		tree, err := LoadCategoryTree(env.Conn(c.Request.Context()))
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, tree.Nested())
	}
}

// DELETE /categories/:id
func DeleteCategoryHandler(env *app.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := middleware.UintParam(c, "id")
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		if err := DeleteCategory(c.Request.Context(), env, id); err != nil {
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
	}
}
