package main

import "github.com/cabinetrenov/renov-api/pkg/slug"

type categoryGroup struct {
	Name    string
	IconKey string
	Subs    []string
}

var taxonomy = []categoryGroup{
	{
		Name:    "Management",
		IconKey: "Briefcase",
		Subs: []string{
			"Management & Leadership",
			"Travail en Équipe & Management",
			"Prise de Parole & Expression Orale",
			"Communication Digitale & Réseautage",
			"Communication & Soft Skills",
		},
	},
	{
		Name:    "Ressources Humaines",
		IconKey: "Building2",
		Subs: []string{
			"Organisation & Gestion RH",
			"Recrutement & Intégration",
			"Performance & Compétences",
			"Éthique & RSE",
			"Digitalisation & Innovation RH",
			"Législation & Réglementation",
		},
	},
	{
		Name:    "Développement Personnel",
		IconKey: "Lightbulb",
		Subs: []string{
			"Développement Personnel & Soft Skills",
			"Développement & Motivation",
			"Bien-être & Santé au Travail",
		},
	},
	{
		Name:    "Qualité & Normes",
		IconKey: "BadgeCheck",
		Subs: []string{
			"Qualité & Normes",
			"Contrôle Qualité & Audit",
			"Normes & Accréditation",
			"Outils & Techniques d’Analyse",
		},
	},
	{
		Name:    "Maintenance Industrielle",
		IconKey: "Wrench",
		Subs:    []string{"Maintenance Industrielle"},
	},
	{
		Name:    "Laboratoire",
		IconKey: "Microscope",
		Subs: []string{
			"Gestion des Risques en Laboratoire",
			"Gestion des Risques & Conflits",
		},
	},
}

// subSlug prefixes the parent so identical names under two roots stay distinct
func subSlug(root, sub string) string {
	return slug.Generate(root + "-" + sub)
}
