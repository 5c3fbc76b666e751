package meal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// minRowFields is the smallest row accepted from an import; shorter rows are skipped.
const minRowFields = 11

// ParseCSV reads meal records in the menu export format:
//
//	day, meal_type, dish_name, calories, carbohydrates, protein, fats,
//	free_sugar, fibre, sodium, calcium, iron, vitamin_c, folate
//
// The first row is a header. Blank and short rows are skipped and
// unparsable numbers are read as 0.
func ParseCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty CSV input")
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	var records []Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		if rec, ok := recordFromFields(row); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

// recordFromFields maps one row of the export format to a Record.
func recordFromFields(fields []string) (Record, bool) {
	cleaned := make([]string, len(fields))
	nonEmpty := false
	for i, f := range fields {
		cleaned[i] = strings.TrimSpace(strings.ReplaceAll(f, `"`, ""))
		if cleaned[i] != "" {
			nonEmpty = true
		}
	}
	if !nonEmpty || len(cleaned) < minRowFields {
		return Record{}, false
	}

	num := func(i int) float64 {
		if i >= len(cleaned) {
			return 0
		}
		v, err := strconv.ParseFloat(cleaned[i], 64)
		if err != nil {
			return 0
		}
		return v
	}

	return Record{
		Day:           cleaned[0],
		MealType:      cleaned[1],
		DishName:      cleaned[2],
		Calories:      num(3),
		Carbohydrates: num(4),
		Protein:       num(5),
		Fats:          num(6),
		FreeSugar:     Float(num(7)),
		Fibre:         num(8),
		Sodium:        num(9),
		Calcium:       num(10),
		Iron:          num(11),
		VitaminC:      num(12),
		Folate:        num(13),
	}, true
}
