package meal

import (
	"errors"
	"strings"
	"testing"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		in      string
		want    Type
		wantErr bool
	}{
		{in: "Dinner", want: Dinner},
		{in: " BREAKFAST ", want: Breakfast},
		{in: "snack", want: Snack},
		{in: "brunch", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseType(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidMealType) {
					t.Fatalf("Expected ErrInvalidMealType, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestRecordHelpers(t *testing.T) {
	r := Record{MealType: "Lunch"}
	if !r.IsType(Lunch) {
		t.Error("Expected record to be a lunch")
	}
	if r.HasFreeSugar() || r.Sugar() != 0 {
		t.Error("Expected absent free sugar to read as 0 and not present")
	}
	r.FreeSugar = Float(0)
	if r.HasFreeSugar() {
		t.Error("Expected a recorded zero free sugar to be treated as absent")
	}
	r.FreeSugar = Float(4)
	if !r.HasFreeSugar() || r.Sugar() != 4 {
		t.Error("Expected free sugar 4 to be present")
	}
}

func TestValidate(t *testing.T) {
	ok := Record{DishName: "Idli", MealType: "breakfast", Calories: 200}
	if err := ok.Validate(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	bad := Record{DishName: "Broken", Calories: -1, Sodium: -5}
	err := bad.Validate()
	if err == nil {
		t.Fatal("Expected an error for negative values, got nil")
	}
	if !strings.Contains(err.Error(), "calories") || !strings.Contains(err.Error(), "sodium") {
		t.Errorf("Expected error to name calories and sodium, got %v", err)
	}
}

func TestParseCSV(t *testing.T) {
	input := `day,meal_type,dish_name,calories,carbohydrates,protein,fats,free_sugar,fibre,sodium,calcium,iron,vitamin_c,folate
"Monday","Breakfast","Poha + Tea",320.45,58.2,8.3,9.8,12.5,3.2,380.5,45.2,2.1,15.8,65.4

Monday,Lunch,Dal Rice,485.6,72.4,18.9,12.3,5.2,8.7,520.3,125.8
Tuesday,Dinner,Too Short,1,2,3
Tuesday,Snack,Bad Numbers,abc,1,1,1,1,1,1,1,1,1,1
`
	records, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}

	poha := records[0]
	if poha.DishName != "Poha + Tea" || poha.Day != "Monday" || poha.MealType != "Breakfast" {
		t.Errorf("Unexpected first record: %+v", poha)
	}
	if poha.Folate != 65.4 || poha.Sugar() != 12.5 {
		t.Errorf("Expected folate 65.4 and sugar 12.5, got %v and %v", poha.Folate, poha.Sugar())
	}

	// Eleven columns: iron, vitamin_c and folate are missing and read as 0.
	dal := records[1]
	if dal.Calcium != 125.8 || dal.Iron != 0 || dal.Folate != 0 {
		t.Errorf("Expected missing trailing columns to be 0, got %+v", dal)
	}

	if records[2].Calories != 0 {
		t.Errorf("Expected unparsable calories to be 0, got %v", records[2].Calories)
	}

	t.Run("Empty", func(t *testing.T) {
		if _, err := ParseCSV(strings.NewReader("")); err == nil {
			t.Fatal("Expected error for empty input, got nil")
		}
	})
}

func TestSampleRecords(t *testing.T) {
	samples := SampleRecords()
	if len(samples) != 3 {
		t.Fatalf("Expected 3 sample records, got %d", len(samples))
	}
	for _, s := range samples {
		if err := s.Validate(); err != nil {
			t.Errorf("Sample %q is invalid: %v", s.DishName, err)
		}
	}
}
