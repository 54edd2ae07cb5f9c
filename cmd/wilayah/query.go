package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) provincesCmd() *cobra.Command {
	var keyword string
	cmd := &cobra.Command{
		Use:   "provinces",
		Short: "List provinces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.print(c.service.Provinces(keyword))
		},
	}
	cmd.Flags().StringVarP(&keyword, "keyword", "k", "", "Match code or name")
	return cmd
}

func (c *cli) citiesCmd() *cobra.Command {
	var province, keyword string
	cmd := &cobra.Command{
		Use:   "cities",
		Short: "List cities, optionally of one province",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.print(c.service.Cities(province, keyword))
		},
	}
	cmd.Flags().StringVar(&province, "province", "", "Province code")
	cmd.Flags().StringVarP(&keyword, "keyword", "k", "", "Match code or name")
	return cmd
}

func (c *cli) districtsCmd() *cobra.Command {
	var city, keyword string
	cmd := &cobra.Command{
		Use:   "districts",
		Short: "List districts, optionally of one city",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.print(c.service.Districts(city, keyword))
		},
	}
	cmd.Flags().StringVar(&city, "city", "", "City code")
	cmd.Flags().StringVarP(&keyword, "keyword", "k", "", "Match code or name")
	return cmd
}

func (c *cli) villagesCmd() *cobra.Command {
	var district, keyword string
	cmd := &cobra.Command{
		Use:   "villages",
		Short: "List villages, optionally of one district",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.print(c.service.Villages(district, keyword))
		},
	}
	cmd.Flags().StringVar(&district, "district", "", "District code")
	cmd.Flags().StringVarP(&keyword, "keyword", "k", "", "Match code or name")
	return cmd
}

func (c *cli) provinceCmd() *cobra.Command {
	var includes []string
	cmd := &cobra.Command{
		Use:   "province <code>",
		Short: "Fetch one province",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := c.service.Province(args[0], includes)
			if p == nil {
				return fmt.Errorf("province %s not found", args[0])
			}
			return c.print(p)
		},
	}
	cmd.Flags().StringSliceVarP(&includes, "include", "i", nil, "Levels to attach: cities, districts, villages")
	return cmd
}

func (c *cli) cityCmd() *cobra.Command {
	var includes []string
	cmd := &cobra.Command{
		Use:   "city <code>",
		Short: "Fetch one city",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			city := c.service.City(args[0], includes)
			if city == nil {
				return fmt.Errorf("city %s not found", args[0])
			}
			return c.print(city)
		},
	}
	cmd.Flags().StringSliceVarP(&includes, "include", "i", nil, "Levels to attach: districts, villages")
	return cmd
}

func (c *cli) districtCmd() *cobra.Command {
	var includes []string
	cmd := &cobra.Command{
		Use:   "district <code>",
		Short: "Fetch one district",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := c.service.District(args[0], includes)
			if d == nil {
				return fmt.Errorf("district %s not found", args[0])
			}
			return c.print(d)
		},
	}
	cmd.Flags().StringSliceVarP(&includes, "include", "i", nil, "Levels to attach: villages")
	return cmd
}

func (c *cli) snapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Describe the loaded reference data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.print(c.service.Snapshot())
		},
	}
}
