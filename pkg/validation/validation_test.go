package validation

import (
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"larder/pkg/apperr"
)

type lineFixture struct {
	Name     string  `json:"name" validate:"required,min=1,max=255"`
	Quantity float64 `json:"quantity" validate:"required,gt=0"`
}

type entityFixture struct {
	Name       string        `json:"name" validate:"required,min=1,max=255"`
	Quantity   float64       `json:"quantity" validate:"required,gt=0"`
	Difficulty string        `json:"difficulty" validate:"required,oneof=Easy Medium Hard"`
	Tags       []string      `json:"tags" validate:"dive,max=100"`
	Lines      []lineFixture `json:"recipe_ingredients" validate:"dive"`
}

func validFixture() entityFixture {
	return entityFixture{
		Name:       "Flour",
		Quantity:   2,
		Difficulty: "Easy",
		Tags:       []string{"baking"},
		Lines:      []lineFixture{{Name: "flour", Quantity: 500}},
	}
}

type ValidationSuite struct {
	suite.Suite
}

func TestValidationSuite(t *testing.T) {
	suite.Run(t, new(ValidationSuite))
}

func (s *ValidationSuite) TestValidate() {
	s.Run("valid value succeeds with data and no errors", func() {
		v := validFixture()
		res := Validate(&v)
		s.True(res.Ok())
		s.NotNil(res.Data())
		s.Nil(res.Errors())
	})

	s.Run("nil value fails", func() {
		res := Validate[entityFixture](nil)
		s.False(res.Ok())
		s.Nil(res.Data())
		s.Len(res.Errors(), 1)
	})

	s.Run("collects every violation in one pass", func() {
		v := entityFixture{
			Name:       "",
			Quantity:   -1,
			Difficulty: "Extreme",
		}
		res := Validate(&v)
		s.False(res.Ok())
		s.Len(res.Errors(), 3)

		byField := ToFormErrors(res.Errors())
		s.Equal("name is required", byField["name"])
		s.Equal("must be a positive number", byField["quantity"])
		s.Equal("must be one of: Easy, Medium, Hard", byField["difficulty"])
	})

	s.Run("strips root segment from field paths", func() {
		v := validFixture()
		v.Name = ""
		res := Validate(&v)
		s.Require().Len(res.Errors(), 1)
		s.Equal("name", res.Errors()[0].Field)
	})

	s.Run("array violations carry numeric path segments", func() {
		v := validFixture()
		v.Lines = []lineFixture{
			{Name: "flour", Quantity: 500},
			{Name: "sugar", Quantity: -3},
		}
		res := Validate(&v)
		s.Require().Len(res.Errors(), 1)
		s.Equal("recipe_ingredients.1.quantity", res.Errors()[0].Field)
		s.Equal("must be a positive number", res.Errors()[0].Message)
	})

	s.Run("trims strings before checking", func() {
		v := validFixture()
		v.Name = "  Flour  "
		res := Validate(&v)
		s.Require().True(res.Ok())
		s.Equal("Flour", res.Data().Name)
	})

	s.Run("whitespace-only required string fails after trimming", func() {
		v := validFixture()
		v.Name = "   "
		res := Validate(&v)
		s.False(res.Ok())
		s.Equal("name", res.Errors()[0].Field)
	})

	s.Run("defaults nil slices to empty", func() {
		v := validFixture()
		v.Tags = nil
		res := Validate(&v)
		s.Require().True(res.Ok())
		s.NotNil(res.Data().Tags)
		s.Empty(res.Data().Tags)
	})
}

func (s *ValidationSuite) TestMustValidate() {
	s.Run("returns data on success", func() {
		v := validFixture()
		got, err := MustValidate(&v)
		s.NoError(err)
		s.Equal("Flour", got.Name)
	})

	s.Run("single violation message is returned bare", func() {
		v := validFixture()
		v.Quantity = -1
		_, err := MustValidate(&v)
		s.Require().Error(err)
		s.True(apperr.HasCode(err, apperr.CodeInvalidInput))
		s.Equal("must be a positive number", apperr.MessageOf(err))
	})

	s.Run("multiple violations aggregate into a bulleted message", func() {
		v := validFixture()
		v.Name = ""
		v.Quantity = 0
		_, err := MustValidate(&v)
		s.Require().Error(err)
		msg := apperr.MessageOf(err)
		s.Contains(msg, "validation failed:")
		s.Contains(msg, "\n- name: name is required")
	})
}

func (s *ValidationSuite) TestValidateSlice() {
	s.Run("prefixes violations with the element index", func() {
		items := []lineFixture{
			{Name: "flour", Quantity: 500},
			{Name: "", Quantity: -1},
		}
		res := ValidateSlice(items)
		s.False(res.Ok())
		s.Require().Len(res.Errors(), 2)
		s.Equal("1.name", res.Errors()[0].Field)
		s.Equal("1.quantity", res.Errors()[1].Field)
	})

	s.Run("all valid elements succeed", func() {
		items := []lineFixture{
			{Name: " flour ", Quantity: 500},
		}
		res := ValidateSlice(items)
		s.Require().True(res.Ok())
		s.Equal("flour", (*res.Data())[0].Name)
	})

	s.Run("empty slice succeeds", func() {
		res := ValidateSlice([]lineFixture{})
		s.True(res.Ok())
	})
}

func (s *ValidationSuite) TestPartial() {
	s.Run("checks only the named fields", func() {
		v := entityFixture{Name: "Flour", Quantity: -1, Difficulty: ""}
		res := Partial(&v, "name")
		s.True(res.Ok())
	})

	s.Run("named field is held to its full constraints", func() {
		v := entityFixture{Name: "", Quantity: -1}
		res := Partial(&v, "name")
		s.False(res.Ok())
		s.Require().Len(res.Errors(), 1)
		s.Equal("name", res.Errors()[0].Field)
	})

	s.Run("unknown field names are skipped", func() {
		v := validFixture()
		res := Partial(&v, "no_such_field")
		s.True(res.Ok())
	})

	s.Run("no fields means normalize only", func() {
		v := entityFixture{Name: "  x  "}
		res := Partial(&v)
		s.Require().True(res.Ok())
		s.Equal("x", res.Data().Name)
	})
}

func (s *ValidationSuite) TestCollect() {
	valid := func(name string) Result[entityFixture] {
		v := validFixture()
		v.Name = name
		return Validate(&v)
	}
	invalid := func(errs ...FieldError) Result[entityFixture] {
		return Fail[entityFixture](errs...)
	}

	s.Run("zero inputs fail rather than vacuously succeed", func() {
		res := Collect[entityFixture]()
		s.False(res.Ok())
		s.Len(res.Errors(), 1)
	})

	s.Run("any failure fails with concatenated violations in order", func() {
		res := Collect(
			invalid(FieldError{Field: "a", Message: "first"}),
			valid("ok"),
			invalid(FieldError{Field: "b", Message: "second"}),
		)
		s.False(res.Ok())
		s.Require().Len(res.Errors(), 2)
		s.Equal("a", res.Errors()[0].Field)
		s.Equal("b", res.Errors()[1].Field)
	})

	s.Run("all successes yield the last input's data", func() {
		res := Collect(valid("X"), valid("Y"))
		s.Require().True(res.Ok())
		s.Equal("Y", res.Data().Name)
	})
}

func (s *ValidationSuite) TestFormatMessage() {
	s.Run("zero errors", func() {
		s.Equal("validation failed", FormatMessage(nil))
	})

	s.Run("one error returns the bare message", func() {
		msg := FormatMessage([]FieldError{{Field: "name", Message: "name is required"}})
		s.Equal("name is required", msg)
	})

	s.Run("several errors become header plus bullets in order", func() {
		msg := FormatMessage([]FieldError{
			{Field: "name", Message: "name is required"},
			{Field: "quantity", Message: "must be a positive number"},
		})
		lines := strings.Split(msg, "\n")
		s.Require().Len(lines, 3)
		s.Equal("validation failed:", lines[0])
		s.Equal("- name: name is required", lines[1])
		s.Equal("- quantity: must be a positive number", lines[2])
	})
}

func (s *ValidationSuite) TestToFormErrors() {
	s.Run("maps by field path", func() {
		out := ToFormErrors([]FieldError{
			{Field: "name", Message: "name is required"},
			{Field: "quantity", Message: "must be a positive number"},
		})
		s.Len(out, 2)
		s.Equal("name is required", out["name"])
	})

	s.Run("last violation wins on duplicate paths", func() {
		out := ToFormErrors([]FieldError{
			{Field: "name", Message: "first"},
			{Field: "name", Message: "second"},
		})
		s.Equal("second", out["name"])
	})
}

func (s *ValidationSuite) TestDebouncer() {
	s.Run("coalesces rapid schedules into the last one", func() {
		d := NewDebouncer(30 * time.Millisecond)
		var fired atomic.Int32
		var last atomic.Int32

		d.Schedule(func() { fired.Add(1); last.Store(1) })
		d.Schedule(func() { fired.Add(1); last.Store(2) })

		time.Sleep(150 * time.Millisecond)
		s.Equal(int32(1), fired.Load())
		s.Equal(int32(2), last.Load())
	})

	s.Run("stop cancels a pending run", func() {
		d := NewDebouncer(30 * time.Millisecond)
		var fired atomic.Int32

		d.Schedule(func() { fired.Add(1) })
		d.Stop()

		time.Sleep(100 * time.Millisecond)
		s.Equal(int32(0), fired.Load())
	})

	s.Run("stop after firing is a no-op", func() {
		d := NewDebouncer(10 * time.Millisecond)
		var fired atomic.Int32
		d.Schedule(func() { fired.Add(1) })
		time.Sleep(80 * time.Millisecond)
		d.Stop()
		s.Equal(int32(1), fired.Load())
	})
}
