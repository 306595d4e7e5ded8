// Command seed-users generates a synthetic user profiles CSV: a few
// users with sharply defined tastes for exercising the recommender,
// plus randomly generated profiles to fill out the population.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
)

var availableGenres = []string{
	"Action", "Comedy", "Drama", "Thriller", "Romance",
	"Sci-Fi", "Horror", "Fantasy", "Adventure", "Animation",
	"Family", "Crime", "Mystery",
}

type profile struct {
	userID           string
	preferredGenres  []string
	favoriteMovies   []string
	averageWatchTime int
}

// specialProfiles have sharply defined tastes so individual genre
// clusters can be probed by id.
var specialProfiles = []profile{
	{
		userID:           "user_superhero",
		preferredGenres:  []string{"Action", "Adventure", "Fantasy"},
		favoriteMovies:   []string{"tt0000001", "tt0000002"},
		averageWatchTime: 150,
	},
	{
		userID:           "user_drama",
		preferredGenres:  []string{"Drama", "Romance"},
		favoriteMovies:   []string{"tt0000003", "tt0000004"},
		averageWatchTime: 120,
	},
	{
		userID:           "user_scifi",
		preferredGenres:  []string{"Sci-Fi", "Thriller"},
		favoriteMovies:   []string{"tt0000005", "tt0000006"},
		averageWatchTime: 130,
	},
}

func main() {
	var (
		total  = flag.Int("n", 100, "Total number of users to generate, special users included")
		seed   = flag.Int64("seed", 0, "Random seed (0 uses a fixed default)")
		output = flag.String("output", "users.csv", "Output CSV")
	)
	flag.Parse()

	if *total < len(specialProfiles) {
		os.Stderr.WriteString(fmt.Sprintf("n must be at least %d\n", len(specialProfiles)))
		os.Exit(1)
	}

	rng := rand.New(rand.NewSource(*seed))

	profiles := make([]profile, 0, *total)
	profiles = append(profiles, specialProfiles...)
	for i := 1; i <= *total-len(specialProfiles); i++ {
		profiles = append(profiles, randomProfile(rng, i))
	}

	if err := writeProfiles(*output, profiles); err != nil {
		os.Stderr.WriteString("failed to write profiles: " + err.Error() + "\n")
		os.Exit(1)
	}

	fmt.Printf("wrote %d users to %s\n", len(profiles), *output)
}

func randomProfile(rng *rand.Rand, i int) profile {
	numMovies := 3 + rng.Intn(4)
	movies := make([]string, numMovies)
	for j := range movies {
		movies[j] = "tt" + strconv.Itoa(1000000+rng.Intn(9000000))
	}

	numGenres := 2 + rng.Intn(3)
	genres := make([]string, 0, numGenres)
	for _, idx := range rng.Perm(len(availableGenres))[:numGenres] {
		genres = append(genres, availableGenres[idx])
	}

	return profile{
		userID:           fmt.Sprintf("user_random_%d", i),
		preferredGenres:  genres,
		favoriteMovies:   movies,
		averageWatchTime: 60 + rng.Intn(121),
	}
}

func writeProfiles(path string, profiles []profile) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"user_id", "preferred_genres", "favorite_movies", "average_watch_time"}); err != nil {
		return err
	}
	for _, p := range profiles {
		rec := []string{
			p.userID,
			strings.Join(p.preferredGenres, ", "),
			strings.Join(p.favoriteMovies, ", "),
			strconv.Itoa(p.averageWatchTime),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
