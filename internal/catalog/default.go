package catalog

import "github.com/noah-isme/gpa-tracker-api/internal/models"

// Default is the built-in course catalog.
var Default = []models.CatalogItem{
	{Code: "CHE110", Name: "Environmental Studies", Credits: 4},
	{Code: "CSE111", Name: "Orientation to Computing-I", Credits: 2},
	{Code: "CSE326", Name: "Internet Programming Laboratory", Credits: 2},
	{Code: "ECE249", Name: "Basic Electrical and Electronics Engineering", Credits: 4},
	{Code: "ECE279", Name: "Basic Electrical and Electronics Engineering Laboratory", Credits: 1},
	{Code: "INT108", Name: "Python Programming", Credits: 4},
	{Code: "MTH174", Name: "Engineering Mathematics", Credits: 4},
	{Code: "PES318", Name: "Soft Skills-I", Credits: 3},
	{Code: "CSE101", Name: "Computer Programming", Credits: 3},
	{Code: "CSE121", Name: "Orientation to Computing-II", Credits: 1},
	{Code: "CSE320", Name: "Software Engineering", Credits: 3},
	{Code: "INT306", Name: "Database Management Systems", Credits: 4},
	{Code: "MEC135", Name: "Basics of Mechanical Engineering", Credits: 3},
	{Code: "MTH401", Name: "Discrete Mathematics", Credits: 3},
	{Code: "PEL125", Name: "Upper Intermediate Communication Skills-I", Credits: 3},
	{Code: "PHY110", Name: "Engineering Physics", Credits: 3},
	{Code: "CSE202", Name: "Object Oriented Programming", Credits: 4},
	{Code: "CSE205", Name: "Data Structures and Algorithms", Credits: 4},
	{Code: "CSE211", Name: "Computer Organization and Design", Credits: 4},
	{Code: "CSE306", Name: "Computer Networks", Credits: 3},
	{Code: "CSE307", Name: "Internetworking Essentials", Credits: 1},
	{Code: "GEN231", Name: "Community Development Project", Credits: 2},
	{Code: "MTH302", Name: "Probability and Statistics", Credits: 3},
	{Code: "PEL136", Name: "Advanced Communication Skills-II", Credits: 3},
	{Code: "CSE310", Name: "Programming in Java", Credits: 4},
	{Code: "CSE316", Name: "Operating Systems", Credits: 3},
	{Code: "CSE325", Name: "Operating Systems Laboratory", Credits: 1},
	{Code: "CSE408", Name: "Design and Analysis of Algorithms", Credits: 3},
	{Code: "INT217", Name: "Introduction to Data Management", Credits: 3},
	{Code: "INT232", Name: "Data Science Toolbox: R Programming", Credits: 3},
	{Code: "INT426", Name: "Generative Artificial Intelligence", Credits: 3},
	{Code: "PEA305", Name: "Analytical Skills-I", Credits: 3},
	{Code: "CSE322", Name: "Formal Languages and Automation Theory", Credits: 3},
	{Code: "CSE343", Name: "Training in Programming", Credits: 3},
	{Code: "INT233", Name: "Data Visualization", Credits: 3},
	{Code: "INT234", Name: "Predictive Analytics", Credits: 3},
	{Code: "JAP105", Name: "Basic Japanese-I", Credits: 3},
	{Code: "PEA306", Name: "Analytical Skills-II", Credits: 3},
	{Code: "PEL113", Name: "Upper-Intermediate Verbal Ability", Credits: 3},
	{Code: "CSE332", Name: "Industry Ethics and Legal Issues", Credits: 2},
	{Code: "CSE358", Name: "Combinatorial Studies", Credits: 4},
	{Code: "CSE393", Name: "Online Academic Course", Credits: 3},
	{Code: "INT312", Name: "Big Data Fundamentals", Credits: 3},
	{Code: "JAP106", Name: "Basic Japanese-II", Credits: 3},
	{Code: "PES319", Name: "Soft Skills-II", Credits: 3},
}
