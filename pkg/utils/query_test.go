package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryValues(t *testing.T) {
	values, _ := url.ParseQuery("regions=North&regions[]=South&regions=&regions[]=%20&gender=Male")

	assert.Equal(t, []string{"North", "South"}, QueryValues(values, "regions"))
	assert.Equal(t, []string{"Male"}, QueryValues(values, "gender"))
	assert.Nil(t, QueryValues(values, "tags"))
}

func TestQueryInt(t *testing.T) {
	values, _ := url.ParseQuery("page=3&pageSize=abc&ageMin=-5&ageMax=")

	assert.Equal(t, 3, QueryInt(values, "page", 1))
	assert.Equal(t, 10, QueryInt(values, "pageSize", 10))
	assert.Equal(t, 1, QueryInt(values, "missing", 1))

	if assert.NotNil(t, QueryIntPtr(values, "ageMin")) {
		assert.Equal(t, -5, *QueryIntPtr(values, "ageMin"))
	}
	assert.Nil(t, QueryIntPtr(values, "ageMax"))
	assert.Nil(t, QueryIntPtr(values, "pageSize"))
}

func TestQueryStringPtr(t *testing.T) {
	values, _ := url.ParseQuery("dateFrom=2023-01-01&dateTo=%20")

	if assert.NotNil(t, QueryStringPtr(values, "dateFrom")) {
		assert.Equal(t, "2023-01-01", *QueryStringPtr(values, "dateFrom"))
	}
	assert.Nil(t, QueryStringPtr(values, "dateTo"))
}
