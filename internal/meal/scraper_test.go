package meal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const menuPage = `
<html>
	<head><script>alert('bad');</script></head>
	<body>
		<h1>Hostel Menu</h1>
		<table>
			<tr><th>Day</th><th>Meal</th><th>Dish</th></tr>
			<tr><td>day</td><td>meal_type</td><td>dish_name</td><td>calories</td><td>carbohydrates</td><td>protein</td><td>fats</td><td>free_sugar</td><td>fibre</td><td>sodium</td><td>calcium</td></tr>
			<tr>
				<td>Tuesday</td><td>Breakfast</td><td> Idli Sambar </td><td>350</td><td>60</td><td>12</td><td>6</td>
				<td>2</td><td>7</td><td>480</td><td>80</td><td>2.5</td><td>12</td><td>70</td>
			</tr>
			<tr><td>Tuesday</td><td>Snack</td><td>Too short</td></tr>
		</table>
		<footer><table><tr><td>Tuesday</td><td>Dinner</td><td>Hidden</td><td>1</td><td>1</td><td>1</td><td>1</td><td>1</td><td>1</td><td>1</td><td>1</td></tr></table></footer>
	</body>
</html>`

func TestParseHTML(t *testing.T) {
	records, err := ParseHTML(strings.NewReader(menuPage))
	if err != nil {
		t.Fatalf("ParseHTML failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d: %+v", len(records), records)
	}
	idli := records[0]
	if idli.DishName != "Idli Sambar" || idli.Calories != 350 || idli.Folate != 70 {
		t.Errorf("Unexpected record %+v", idli)
	}
	if idli.Sugar() != 2 {
		t.Errorf("Expected free sugar 2, got %v", idli.Sugar())
	}

	t.Run("NoRows", func(t *testing.T) {
		if _, err := ParseHTML(strings.NewReader("<p>nothing here</p>")); err == nil {
			t.Fatal("Expected an error for a page without meal rows")
		}
	})
}

func TestScrapeURL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(menuPage))
	}))
	defer ts.Close()

	s := NewScraper()
	records, err := s.ScrapeURL(context.Background(), ts.URL+"/menu")
	if err != nil {
		t.Fatalf("ScrapeURL failed: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("Expected 1 record, got %d", len(records))
	}

	if _, err := s.ScrapeURL(context.Background(), ts.URL+"/missing"); err == nil {
		t.Error("Expected an error for a 404 page")
	}
}
