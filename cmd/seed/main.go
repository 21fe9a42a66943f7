package main

import (
	"log"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"petcare-clinic-server/internal/config"
	"petcare-clinic-server/internal/models"
)

// Populates the database with demo accounts, pets and appointments so the
// application has something to show after a fresh install. Safe to re-run:
// seeded users are keyed by email and skipped when already present.
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := models.InitDB(models.DatabaseConfig{DSN: cfg.Database.DSN})
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}

	gofakeit.Seed(time.Now().UnixNano())

	if err := seedAdmin(db); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	vets, err := seedVeterinarians(db, 5)
	if err != nil {
		log.Fatalf("seed veterinarians: %v", err)
	}

	owners, err := seedOwners(db, 20)
	if err != nil {
		log.Fatalf("seed owners: %v", err)
	}

	pets, err := seedPets(db, owners, 3)
	if err != nil {
		log.Fatalf("seed pets: %v", err)
	}

	if err := seedAppointments(db, pets, vets, 40); err != nil {
		log.Fatalf("seed appointments: %v", err)
	}

	log.Println("seed complete")
}

func seedAdmin(db *gorm.DB) error {
	const email = "admin@petcare.local"

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("admin already present, skipping")
		return nil
	}

	admin := models.User{
		Email:    email,
		FullName: "Clinic Administrator",
		Role:     models.RoleAdmin,
		Status:   models.UserActive,
	}
	if err := admin.SetPassword("admin12345"); err != nil {
		return err
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("admin seeded: %s / admin12345", email)
	return nil
}

func seedVeterinarians(db *gorm.DB, count int) ([]models.Veterinarian, error) {
	log.Printf("seeding %d veterinarians", count)

	specializations := []string{
		"General Practice",
		"Surgery",
		"Dermatology",
		"Dentistry",
		"Exotic Animals",
		"Cardiology",
	}

	vets := make([]models.Veterinarian, 0, count)
	err := db.Transaction(func(tx *gorm.DB) error {
		for i := 0; i < count; i++ {
			user := models.User{
				Email:    gofakeit.Email(),
				FullName: "Dr. " + gofakeit.Name(),
				Role:     models.RoleVeterinarian,
				Status:   models.UserActive,
			}
			if err := user.SetPassword("vet12345"); err != nil {
				return err
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}

			vet := models.Veterinarian{
				UserID:         user.ID,
				Specialization: specializations[gofakeit.Number(0, len(specializations)-1)],
				Phone:          gofakeit.Phone(),
				ClinicAddress:  gofakeit.Address().Address,
			}
			if err := tx.Create(&vet).Error; err != nil {
				return err
			}
			vets = append(vets, vet)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Println("veterinarians seeded")
	return vets, nil
}

func seedOwners(db *gorm.DB, count int) ([]models.Owner, error) {
	log.Printf("seeding %d owners", count)

	owners := make([]models.Owner, 0, count)
	err := db.Transaction(func(tx *gorm.DB) error {
		for i := 0; i < count; i++ {
			user := models.User{
				Email:    gofakeit.Email(),
				FullName: gofakeit.Name(),
				Role:     models.RolePetOwner,
				Status:   models.UserActive,
			}
			if err := user.SetPassword("owner12345"); err != nil {
				return err
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}

			owner := models.Owner{
				UserID:  user.ID,
				Phone:   gofakeit.Phone(),
				Address: gofakeit.Address().Address,
			}
			if err := tx.Create(&owner).Error; err != nil {
				return err
			}
			owners = append(owners, owner)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Println("owners seeded")
	return owners, nil
}

func seedPets(db *gorm.DB, owners []models.Owner, perOwner int) ([]models.Pet, error) {
	log.Printf("seeding up to %d pets per owner", perOwner)

	breeds := []string{
		"Labrador Retriever",
		"German Shepherd",
		"Persian Cat",
		"Siamese Cat",
		"Golden Retriever",
		"Beagle",
		"Maine Coon",
		"Parakeet",
		"Holland Lop Rabbit",
	}
	genders := []string{"Male", "Female"}

	pets := make([]models.Pet, 0, len(owners)*perOwner)
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, owner := range owners {
			n := gofakeit.Number(1, perOwner)
			for i := 0; i < n; i++ {
				pet := models.Pet{
					OwnerID: owner.ID,
					Name:    gofakeit.PetName(),
					Breed:   breeds[gofakeit.Number(0, len(breeds)-1)],
					Age:     gofakeit.Number(1, 15),
					Gender:  genders[gofakeit.Number(0, 1)],
				}
				if err := tx.Create(&pet).Error; err != nil {
					return err
				}
				pets = append(pets, pet)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("%d pets seeded", len(pets))
	return pets, nil
}

func seedAppointments(db *gorm.DB, pets []models.Pet, vets []models.Veterinarian, count int) error {
	log.Printf("seeding %d appointments", count)

	if len(pets) == 0 || len(vets) == 0 {
		log.Println("no pets or vets, skipping appointments")
		return nil
	}

	statuses := []models.AppointmentStatus{
		models.StatusPending,
		models.StatusConfirmed,
		models.StatusCompleted,
		models.StatusCancelled,
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for i := 0; i < count; i++ {
			pet := pets[gofakeit.Number(0, len(pets)-1)]
			vet := vets[gofakeit.Number(0, len(vets)-1)]

			// Spread appointments across the surrounding month on the
			// hour, so seeded slots rarely collide.
			day := gofakeit.Number(-14, 14)
			hour := gofakeit.Number(9, 17)
			at := time.Now().AddDate(0, 0, day).Truncate(time.Hour).Add(time.Duration(hour-time.Now().Hour()) * time.Hour)

			appt := models.Appointment{
				PetID:         pet.ID,
				OwnerID:       pet.OwnerID,
				VetID:         vet.ID,
				AppointmentAt: at,
				Status:        statuses[gofakeit.Number(0, len(statuses)-1)],
			}
			if err := tx.Create(&appt).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
