package peopleapi

import (
	"net/http"
	"time"

	"moviestream-app/database"
	"moviestream-app/internal/api/apiutil"
	"moviestream-app/internal/domain/movies"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func ListPeople(c *gin.Context) {
	q := database.DB.Model(&movies.Person{})
	if search := c.Query("search"); search != "" {
		q = q.Where("name ILIKE ?", "%"+search+"%")
	}
	if role := c.Query("role"); role != "" {
		if !movies.ValidPersonRole(role) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown cast role"})
			return
		}
		q = q.Joins("JOIN movie_people mp ON mp.person_id = people.id").
			Where("mp.role = ?", role).
			Distinct()
	}

	page := apiutil.QueryInt(c, "page", 1)
	limit := apiutil.QueryInt(c, "limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var people []movies.Person
	if err := q.Order("name ASC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&people).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load people"})
		return
	}
	if len(people) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No people found"})
		return
	}
	c.JSON(http.StatusOK, people)
}

func GetPerson(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid person id"})
		return
	}

	var person movies.Person
	if err := database.DB.First(&person, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Person not found"})
		return
	}

	var credits []movies.MoviePerson
	database.DB.Where("person_id = ?", id).Find(&credits)

	c.JSON(http.StatusOK, gin.H{"person": person, "credits": credits})
}

func CreatePerson(c *gin.Context) {
	var input struct {
		Name      string     `json:"name" binding:"required"`
		Bio       string     `json:"bio"`
		BirthDate *time.Time `json:"birth_date"`
		PhotoURL  string     `json:"photo_url"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	person := movies.Person{
		Name:      input.Name,
		Bio:       input.Bio,
		BirthDate: input.BirthDate,
		PhotoURL:  input.PhotoURL,
	}
	if err := database.DB.Create(&person).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create person"})
		return
	}
	c.JSON(http.StatusCreated, person)
}

func UpdatePerson(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid person id"})
		return
	}

	var person movies.Person
	if err := database.DB.First(&person, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Person not found"})
		return
	}

	var input struct {
		Name      *string    `json:"name"`
		Bio       *string    `json:"bio"`
		BirthDate *time.Time `json:"birth_date"`
		PhotoURL  *string    `json:"photo_url"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Bio != nil {
		updates["bio"] = *input.Bio
	}
	if input.BirthDate != nil {
		updates["birth_date"] = *input.BirthDate
	}
	if input.PhotoURL != nil {
		updates["photo_url"] = *input.PhotoURL
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&person).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update person"})
			return
		}
	}
	c.JSON(http.StatusOK, person)
}

func DeletePerson(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid person id"})
		return
	}

	database.DB.Where("person_id = ?", id).Delete(&movies.MoviePerson{})
	res := database.DB.Delete(&movies.Person{}, "id = ?", id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete person"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Person not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Person deleted"})
}
