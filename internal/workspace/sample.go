package workspace

import "time"

func mustTime(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

// SampleDataset returns the bundled demo workspace. Each call builds a
// fresh copy so callers may modify the result.
func SampleDataset() Dataset {
	return Dataset{
		Users:       sampleUsers(),
		Roles:       sampleRoles(),
		Departments: sampleDepartments(),
		Activity:    sampleActivity(),
	}
}

func sampleUsers() []User {
	return []User{
		{
			ID:         "user-1",
			Name:       "María González",
			Email:      "maria@company.com",
			Position:   "Marketing Manager",
			Avatar:     "/avatars/maria.jpg",
			Status:     StatusActive,
			LastActive: mustTime("2024-01-15T10:30:00Z"),
			GlobalRole: RoleAdmin,
			Departments: []Membership{
				{ID: "marketing", Name: "Marketing", Role: RoleAdmin},
				{ID: "general", Name: "General", Role: RoleManager},
			},
			Permissions: map[string]map[string]bool{
				"marketing": {
					"chat_agent":        true,
					"create_objectives": true,
					"manage_tasks":      true,
					"view_artifacts":    true,
					"manage_team":       true,
					"edit_objectives":   true,
					"delete_objectives": false,
				},
				"general": {
					"view_objectives":   true,
					"create_objectives": true,
					"view_reports":      true,
					"export_data":       true,
				},
			},
			CreatedAt: mustTime("2023-06-15T09:00:00Z"),
			Phone:     "+34 612 345 678",
		},
		{
			ID:         "user-2",
			Name:       "Carlos Ruiz",
			Email:      "carlos@company.com",
			Position:   "Finance Director",
			Avatar:     "/avatars/carlos.jpg",
			Status:     StatusInactive,
			LastActive: mustTime("2024-01-10T15:45:00Z"),
			GlobalRole: RoleAdmin,
			Departments: []Membership{
				{ID: "finance", Name: "Finance", Role: RoleAdmin},
				{ID: "general", Name: "General", Role: RoleUser},
			},
			Permissions: map[string]map[string]bool{
				"finance": {
					"view_reports":     true,
					"create_reports":   true,
					"manage_budget":    true,
					"approve_expenses": true,
				},
				"general": {
					"view_objectives": true,
					"view_reports":    false,
				},
			},
			CreatedAt: mustTime("2023-08-20T14:30:00Z"),
			Phone:     "+34 687 234 567",
		},
		{
			ID:         "user-3",
			Name:       "Ana López",
			Email:      "ana@company.com",
			Position:   "HR Specialist",
			Avatar:     "/avatars/ana.jpg",
			Status:     StatusActive,
			LastActive: mustTime("2024-01-15T09:15:00Z"),
			GlobalRole: RoleManager,
			Departments: []Membership{
				{ID: "hr", Name: "HR", Role: RoleManager},
				{ID: "general", Name: "General", Role: RoleUser},
			},
			Permissions: map[string]map[string]bool{
				"hr": {
					"manage_employees":   true,
					"view_payroll":       false,
					"conduct_interviews": true,
					"manage_benefits":    true,
				},
				"general": {
					"view_objectives":   true,
					"create_objectives": false,
				},
			},
			CreatedAt: mustTime("2023-09-10T11:00:00Z"),
			Phone:     "+34 654 789 123",
		},
		{
			ID:         "user-4",
			Name:       "Roberto Sánchez",
			Email:      "roberto@company.com",
			Position:   "Sales Executive",
			Avatar:     "/avatars/roberto.jpg",
			Status:     StatusSuspended,
			LastActive: mustTime("2024-01-08T16:20:00Z"),
			GlobalRole: RoleUser,
			Departments: []Membership{
				{ID: "sales", Name: "Sales", Role: RoleUser},
			},
			Permissions: map[string]map[string]bool{
				"sales": {
					"view_leads":      true,
					"create_leads":    true,
					"manage_pipeline": false,
					"view_reports":    true,
				},
			},
			CreatedAt: mustTime("2023-11-05T10:30:00Z"),
			Phone:     "+34 678 901 234",
		},
		{
			ID:         "user-5",
			Name:       "Laura Martín",
			Email:      "laura@company.com",
			Position:   "IT Administrator",
			Avatar:     "/avatars/laura.jpg",
			Status:     StatusActive,
			LastActive: mustTime("2024-01-15T11:45:00Z"),
			GlobalRole: RoleSuperAdmin,
			Departments: []Membership{
				{ID: "it", Name: "IT", Role: RoleAdmin},
				{ID: "general", Name: "General", Role: RoleAdmin},
			},
			Permissions: map[string]map[string]bool{
				"it": {
					"system_access":   true,
					"manage_users":    true,
					"backup_data":     true,
					"security_config": true,
				},
				"general": {
					"view_objectives":   true,
					"create_objectives": true,
					"manage_users":      true,
					"system_config":     true,
				},
			},
			CreatedAt: mustTime("2023-05-01T08:00:00Z"),
			Phone:     "+34 645 123 789",
		},
	}
}

func sampleRoles() []Role {
	return []Role{
		{
			ID:          RoleSuperAdmin,
			Name:        "Super Admin",
			Description: "Acceso total al sistema",
			Color:       "#ef4444",
			Permissions: []string{"*"},
			UserCount:   2,
		},
		{
			ID:          RoleAdmin,
			Name:        "Admin",
			Description: "Control total del departamento",
			Color:       "#6366f1",
			Permissions: []string{
				"manage_objectives",
				"manage_tasks",
				"manage_team",
				"view_reports",
				"create_artifacts",
				"edit_objectives",
				"delete_objectives",
			},
			UserCount: 8,
		},
		{
			ID:          RoleManager,
			Name:        "Manager",
			Description: "Gestión de equipo y tareas",
			Color:       "#8b5cf6",
			Permissions: []string{
				"manage_tasks",
				"create_objectives",
				"view_reports",
				"assign_tasks",
				"view_artifacts",
			},
			UserCount: 12,
		},
		{
			ID:          RoleUser,
			Name:        "User",
			Description: "Usuario estándar del sistema",
			Color:       "#06b6d4",
			Permissions: []string{
				"view_objectives",
				"create_tasks",
				"view_artifacts",
				"update_profile",
			},
			UserCount: 18,
		},
		{
			ID:          RoleReadOnly,
			Name:        "ReadOnly",
			Description: "Solo lectura",
			Color:       "#64748b",
			Permissions: []string{"view_objectives", "view_reports"},
			UserCount:   4,
		},
	}
}

func sampleDepartments() []Department {
	return []Department{
		{ID: "general", Name: "General", Icon: "🏢", Color: "#6366f1", UserCount: 24},
		{ID: "marketing", Name: "Marketing", Icon: "📈", Color: "#10b981", UserCount: 8},
		{ID: "finance", Name: "Finance", Icon: "💰", Color: "#f59e0b", UserCount: 5},
		{ID: "sales", Name: "Sales", Icon: "🎯", Color: "#ef4444", UserCount: 12},
		{ID: "hr", Name: "HR", Icon: "👥", Color: "#8b5cf6", UserCount: 6},
		{ID: "it", Name: "IT", Icon: "🔧", Color: "#06b6d4", UserCount: 4},
	}
}

func sampleActivity() []Activity {
	return []Activity{
		{
			ID:         "act-1",
			UserID:     "user-1",
			UserName:   "María González",
			Action:     "Creó objetivo",
			Target:     "Aumentar CTR 25%",
			Department: String("Marketing"),
			Timestamp:  mustTime("2024-01-15T10:25:00Z"),
			IP:         "192.168.1.45",
			UserAgent:  "Chrome/120 Windows",
			Success:    Bool(true),
		},
		{
			ID:         "act-2",
			UserID:     "user-2",
			UserName:   "Carlos Ruiz",
			Action:     "Editó dashboard",
			Target:     "Dashboard financiero",
			Department: String("Finance"),
			Timestamp:  mustTime("2024-01-15T10:18:00Z"),
			IP:         "192.168.1.67",
			UserAgent:  "Safari/iOS",
			Success:    Bool(true),
		},
		{
			ID:         "act-3",
			UserID:     "user-3",
			UserName:   "Ana López",
			Action:     "Intento de acceso fallido",
			Target:     "Departamento IT",
			Department: String("IT"),
			Timestamp:  mustTime("2024-01-15T09:30:00Z"),
			IP:         "203.45.12.89",
			UserAgent:  "Firefox/Linux",
			Success:    Bool(false),
		},
		{
			ID:         "act-4",
			UserID:     "user-5",
			UserName:   "Laura Martín",
			Action:     "Actualizó permisos",
			Target:     "Usuario Roberto Sánchez",
			Department: String("General"),
			Timestamp:  mustTime("2024-01-15T08:45:00Z"),
			IP:         "192.168.1.23",
			UserAgent:  "Chrome/120 Windows",
			Success:    Bool(true),
		},
		{
			ID:         "act-5",
			UserID:     "user-1",
			UserName:   "María González",
			Action:     "Exportó datos",
			Target:     "Reporte de marketing Q1",
			Department: String("Marketing"),
			Timestamp:  mustTime("2024-01-15T08:15:00Z"),
			IP:         "192.168.1.45",
			UserAgent:  "Chrome/120 Windows",
			Success:    Bool(true),
		},
	}
}
