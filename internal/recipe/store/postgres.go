package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"larder/internal/platform/db"
	"larder/internal/recipe/models"
	id "larder/pkg/domain"
	"larder/pkg/platform/sentinel"
)

// Postgres persists recipes in PostgreSQL. Ingredient and instruction lines
// live in child tables and are rewritten wholesale on update; recipes are
// small enough that diffing lines buys nothing.
type Postgres struct {
	pool *sql.DB
}

func NewPostgres(pool *sql.DB) *Postgres {
	return &Postgres{pool: pool}
}

const recipeColumns = `id, user_id, title, description, difficulty, prep_time_minutes,
	cook_time_minutes, servings, image_url, source_url, created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, r *models.Recipe) error {
	tx, err := s.pool.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create recipe: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO recipes (`+recipeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		uuid.UUID(r.ID), uuid.UUID(r.UserID), r.Title, r.Description, r.Difficulty,
		r.PrepTimeMinutes, r.CookTimeMinutes, r.Servings, r.ImageURL, r.SourceURL,
		r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create recipe: %w", err)
	}
	if err := insertLines(ctx, tx, r); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create recipe: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, recipeID id.RecipeID) (*models.Recipe, error) {
	row := s.pool.QueryRowContext(ctx, `
		SELECT `+recipeColumns+` FROM recipes WHERE id = $1`, uuid.UUID(recipeID))
	r, err := scanRecipe(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find recipe: %w", err)
	}
	if err := s.loadLines(ctx, []*models.Recipe{r}); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Postgres) ListByUser(ctx context.Context, userID id.UserID) ([]models.Recipe, error) {
	rows, err := s.pool.QueryContext(ctx, `
		SELECT `+recipeColumns+` FROM recipes WHERE user_id = $1 ORDER BY title`,
		uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	recipes := make([]models.Recipe, 0)
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		recipes = append(recipes, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*models.Recipe, len(recipes))
	for i := range recipes {
		refs[i] = &recipes[i]
	}
	if err := s.loadLines(ctx, refs); err != nil {
		return nil, err
	}
	return recipes, nil
}

func (s *Postgres) Update(ctx context.Context, r *models.Recipe) error {
	tx, err := s.pool.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update recipe: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE recipes
		SET title = $2, description = $3, difficulty = $4, prep_time_minutes = $5,
		    cook_time_minutes = $6, servings = $7, image_url = $8, source_url = $9,
		    updated_at = $10
		WHERE id = $1`,
		uuid.UUID(r.ID), r.Title, r.Description, r.Difficulty, r.PrepTimeMinutes,
		r.CookTimeMinutes, r.Servings, r.ImageURL, r.SourceURL, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update recipe: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}

	recipeID := uuid.UUID(r.ID)
	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = $1`, recipeID); err != nil {
		return fmt.Errorf("clear recipe ingredients: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_instructions WHERE recipe_id = $1`, recipeID); err != nil {
		return fmt.Errorf("clear recipe instructions: %w", err)
	}
	if err := insertLines(ctx, tx, r); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update recipe: %w", err)
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, recipeID id.RecipeID) error {
	res, err := s.pool.ExecContext(ctx, `DELETE FROM recipes WHERE id = $1`, uuid.UUID(recipeID))
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) Match(ctx context.Context, userID id.UserID, params MatchParams) ([]models.Match, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.QueryContext(ctx, `
		SELECT r.id,
		       count(*) FILTER (WHERE NOT ri.optional) AS total,
		       count(*) FILTER (WHERE NOT ri.optional AND lower(btrim(ri.name)) = ANY($2)) AS covered
		FROM recipes r
		JOIN recipe_ingredients ri ON ri.recipe_id = r.id
		WHERE r.user_id = $1
		GROUP BY r.id, r.title
		HAVING count(*) FILTER (WHERE NOT ri.optional) > 0
		   AND count(*) FILTER (WHERE NOT ri.optional AND lower(btrim(ri.name)) = ANY($2))::float
		       / count(*) FILTER (WHERE NOT ri.optional) * 100 >= $3
		ORDER BY count(*) FILTER (WHERE NOT ri.optional AND lower(btrim(ri.name)) = ANY($2))::float
		         / count(*) FILTER (WHERE NOT ri.optional) DESC,
		         r.title
		LIMIT $4 OFFSET $5`,
		uuid.UUID(userID), pq.Array(params.Pantry), params.MinPercent, limit, params.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("match recipes: %w", err)
	}
	defer rows.Close()

	type score struct {
		recipeID uuid.UUID
		total    int
		covered  int
	}
	scores := make([]score, 0)
	for rows.Next() {
		var sc score
		if err := rows.Scan(&sc.recipeID, &sc.total, &sc.covered); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		scores = append(scores, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	matches := make([]models.Match, 0, len(scores))
	for _, sc := range scores {
		r, err := s.FindByID(ctx, id.RecipeID(sc.recipeID))
		if err != nil {
			return nil, err
		}
		matches = append(matches, models.Match{
			Recipe:       *r,
			MatchPercent: float64(sc.covered) / float64(sc.total) * 100,
			MissingCount: sc.total - sc.covered,
		})
	}
	return matches, nil
}

func insertLines(ctx context.Context, tx *sql.Tx, r *models.Recipe) error {
	for i, ing := range r.Ingredients {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO recipe_ingredients (recipe_id, position, name, quantity, unit, optional)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.UUID(r.ID), i, ing.Name, ing.Quantity, ing.Unit, ing.Optional,
		)
		if err != nil {
			return fmt.Errorf("insert recipe ingredient: %w", err)
		}
	}
	for _, step := range r.Instructions {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO recipe_instructions (recipe_id, step_number, text)
			VALUES ($1, $2, $3)`,
			uuid.UUID(r.ID), step.StepNumber, step.Text,
		)
		if err != nil {
			return fmt.Errorf("insert recipe instruction: %w", err)
		}
	}
	return nil
}

// loadLines attaches ingredient and instruction lines to the given recipes
// in two queries, regardless of recipe count.
func (s *Postgres) loadLines(ctx context.Context, recipes []*models.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}
	byID := make(map[uuid.UUID]*models.Recipe, len(recipes))
	ids := make([]string, 0, len(recipes))
	for _, r := range recipes {
		rid := uuid.UUID(r.ID)
		byID[rid] = r
		ids = append(ids, rid.String())
		r.Ingredients = make([]models.RecipeIngredient, 0)
		r.Instructions = make([]models.Instruction, 0)
	}

	ingRows, err := s.pool.QueryContext(ctx, `
		SELECT recipe_id, name, quantity, unit, optional
		FROM recipe_ingredients
		WHERE recipe_id = ANY($1::uuid[])
		ORDER BY recipe_id, position`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("load recipe ingredients: %w", err)
	}
	defer ingRows.Close()
	for ingRows.Next() {
		var (
			rid uuid.UUID
			ing models.RecipeIngredient
		)
		if err := ingRows.Scan(&rid, &ing.Name, &ing.Quantity, &ing.Unit, &ing.Optional); err != nil {
			return fmt.Errorf("scan recipe ingredient: %w", err)
		}
		if r, ok := byID[rid]; ok {
			r.Ingredients = append(r.Ingredients, ing)
		}
	}
	if err := ingRows.Err(); err != nil {
		return err
	}

	stepRows, err := s.pool.QueryContext(ctx, `
		SELECT recipe_id, step_number, text
		FROM recipe_instructions
		WHERE recipe_id = ANY($1::uuid[])
		ORDER BY recipe_id, step_number`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("load recipe instructions: %w", err)
	}
	defer stepRows.Close()
	for stepRows.Next() {
		var (
			rid  uuid.UUID
			step models.Instruction
		)
		if err := stepRows.Scan(&rid, &step.StepNumber, &step.Text); err != nil {
			return fmt.Errorf("scan recipe instruction: %w", err)
		}
		if r, ok := byID[rid]; ok {
			r.Instructions = append(r.Instructions, step)
		}
	}
	return stepRows.Err()
}

func scanRecipe(row interface{ Scan(dest ...any) error }) (*models.Recipe, error) {
	var (
		r        models.Recipe
		rID, uID uuid.UUID
	)
	err := row.Scan(&rID, &uID, &r.Title, &r.Description, &r.Difficulty,
		&r.PrepTimeMinutes, &r.CookTimeMinutes, &r.Servings, &r.ImageURL,
		&r.SourceURL, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	r.ID = id.RecipeID(rID)
	r.UserID = id.UserID(uID)
	return &r, nil
}
