package moviesapi

import (
	"net/http"
	"time"

	"moviestream-app/database"
	"moviestream-app/internal/api/apiutil"
	"moviestream-app/internal/domain/movies"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type movieInput struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	ReleaseDate *time.Time `json:"release_date"`
	DurationMin int        `json:"duration_min"`
	PosterURL   string     `json:"poster_url"`
	VideoURL    string     `json:"video_url"`
	Quality     string     `json:"quality"`
	GenreIDs    []string   `json:"genre_ids"`
}

type castInput struct {
	PersonID string `json:"person_id" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

func ListMovies(c *gin.Context) {
	q := database.DB.Model(&movies.Movie{}).
		Preload("Genres").
		Preload("Cast.Person")

	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		q = q.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}
	if genre := c.Query("genre"); genre != "" {
		q = q.Joins("JOIN movie_genres mg ON mg.movie_id = movies.id").
			Joins("JOIN genres g ON g.id = mg.genre_id").
			Where("g.name = ?", genre)
	}
	if quality := c.Query("quality"); quality != "" {
		q = q.Where("quality = ?", quality)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load movies"})
		return
	}

	page := apiutil.QueryInt(c, "page", 1)
	limit := apiutil.QueryInt(c, "limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var out []movies.Movie
	if err := q.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&out).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load movies"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"movies": out,
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}

func GetMovie(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid movie id"})
		return
	}

	var movie movies.Movie
	if err := database.DB.
		Preload("Genres").
		Preload("Cast.Person").
		First(&movie, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
		return
	}
	c.JSON(http.StatusOK, movie)
}

func CreateMovie(c *gin.Context) {
	var input movieInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Duplicate title/poster/video are all conflicts, matching the
	// unique indexes.
	var dup int64
	database.DB.Model(&movies.Movie{}).
		Where("title = ? OR (poster_url <> '' AND poster_url = ?) OR (video_url <> '' AND video_url = ?)",
			input.Title, input.PosterURL, input.VideoURL).
		Count(&dup)
	if dup > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "A movie with this title, poster or video already exists"})
		return
	}

	movie := movies.Movie{
		Title:       input.Title,
		Description: input.Description,
		ReleaseDate: input.ReleaseDate,
		DurationMin: input.DurationMin,
		PosterURL:   input.PosterURL,
		VideoURL:    input.VideoURL,
		Quality:     input.Quality,
	}
	if movie.Quality == "" {
		movie.Quality = movies.QualityHD
	}

	genres, err := resolveGenres(input.GenreIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	movie.Genres = genres

	if err := database.DB.Create(&movie).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create movie"})
		return
	}
	c.JSON(http.StatusCreated, movie)
}

func UpdateMovie(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid movie id"})
		return
	}

	var movie movies.Movie
	if err := database.DB.First(&movie, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
		return
	}

	var input struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		ReleaseDate *time.Time `json:"release_date"`
		DurationMin *int       `json:"duration_min"`
		PosterURL   *string    `json:"poster_url"`
		VideoURL    *string    `json:"video_url"`
		Quality     *string    `json:"quality"`
		GenreIDs    []string   `json:"genre_ids"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.ReleaseDate != nil {
		updates["release_date"] = *input.ReleaseDate
	}
	if input.DurationMin != nil {
		updates["duration_min"] = *input.DurationMin
	}
	if input.PosterURL != nil {
		updates["poster_url"] = *input.PosterURL
	}
	if input.VideoURL != nil {
		updates["video_url"] = *input.VideoURL
	}
	if input.Quality != nil {
		updates["quality"] = *input.Quality
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&movie).Updates(updates).Error; err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Update collides with an existing movie"})
			return
		}
	}

	if input.GenreIDs != nil {
		genres, err := resolveGenres(input.GenreIDs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := database.DB.Model(&movie).Association("Genres").Replace(genres); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update genres"})
			return
		}
	}

	database.DB.Preload("Genres").Preload("Cast.Person").First(&movie, "id = ?", id)
	c.JSON(http.StatusOK, movie)
}

func DeleteMovie(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid movie id"})
		return
	}

	database.DB.Where("movie_id = ?", id).Delete(&movies.MoviePerson{})
	res := database.DB.Select("Genres").Delete(&movies.Movie{ID: id})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete movie"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Movie deleted"})
}

// POST /movies/:id/cast (admin)
func AddCastMember(c *gin.Context) {
	movieID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid movie id"})
		return
	}

	var input castInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	personID, err := uuid.Parse(input.PersonID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid person id"})
		return
	}
	if !movies.ValidPersonRole(input.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown cast role"})
		return
	}

	var movie movies.Movie
	if err := database.DB.First(&movie, "id = ?", movieID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
		return
	}
	var person movies.Person
	if err := database.DB.First(&person, "id = ?", personID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Person not found"})
		return
	}

	link := movies.MoviePerson{MovieID: movieID, PersonID: personID, Role: input.Role}
	if err := database.DB.Create(&link).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Person already has this role on the movie"})
		return
	}
	c.JSON(http.StatusCreated, link)
}

// DELETE /movies/:id/cast/:personID/:role (admin)
func RemoveCastMember(c *gin.Context) {
	movieID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid movie id"})
		return
	}
	personID, err := uuid.Parse(c.Param("personID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid person id"})
		return
	}

	res := database.DB.Where("movie_id = ? AND person_id = ? AND role = ?",
		movieID, personID, c.Param("role")).Delete(&movies.MoviePerson{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove cast member"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cast member not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cast member removed"})
}

func resolveGenres(ids []string) ([]movies.Genre, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	parsed := make([]uuid.UUID, 0, len(ids))
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, errInvalidGenre
		}
		parsed = append(parsed, id)
	}

	var genres []movies.Genre
	if err := database.DB.Where("id IN ?", parsed).Find(&genres).Error; err != nil {
		return nil, err
	}
	if len(genres) != len(parsed) {
		return nil, errUnknownGenre
	}
	return genres, nil
}

var (
	errInvalidGenre = &apiError{"Invalid genre id"}
	errUnknownGenre = &apiError{"One or more genres do not exist"}
)

type apiError struct{ msg string }

func (e *apiError) Error() string { return e.msg }
